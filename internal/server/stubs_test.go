package server

import (
	"time"

	"campuslink/internal/auth"
	"campuslink/internal/config"
	"campuslink/internal/moderation"
	"campuslink/internal/service"
	"campuslink/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:             "8080",
		MongoURI:         "mongodb://localhost:27017",
		MongoDB:          "testdb",
		JWTSecret:        "test-secret-key",
		RegisterTokenTTL: 2 * time.Hour,
		LoginTokenTTL:    6 * time.Hour,
	}
}

// testFixture bundles the server and its stub backends. The Server struct is
// assembled directly so each test gets a fresh instance without
// re-registering Prometheus collectors.
type testFixture struct {
	server      *Server
	users       *testutil.UserRepoStub
	posts       *testutil.PostRepoStub
	internships *testutil.InternshipRepoStub
	quarantine  *testutil.QuarantineStub
}

func newTestFixture() *testFixture {
	cfg := testConfig()
	users := testutil.NewUserRepoStub()
	posts := testutil.NewPostRepoStub()
	internships := &testutil.InternshipRepoStub{}
	quarantine := &testutil.QuarantineStub{}

	gate := moderation.NewGate(testutil.FlagWord("banned"), quarantine)

	s := &Server{
		config:      cfg,
		authn:       auth.New(cfg.JWTSecret),
		users:       users,
		posts:       posts,
		internships: internships,
		quarantine:  quarantine,
		userService: service.NewUserService(users),
		postService: service.NewPostService(posts, gate),
	}

	return &testFixture{
		server:      s,
		users:       users,
		posts:       posts,
		internships: internships,
		quarantine:  quarantine,
	}
}
