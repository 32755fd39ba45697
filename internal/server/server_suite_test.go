package server_test

import (
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opencode-ai/safemode/internal/config"
	"github.com/opencode-ai/safemode/internal/permission"
	"github.com/opencode-ai/safemode/internal/safety"
	"github.com/opencode-ai/safemode/internal/server"
)

var (
	manager    *permission.Manager
	testServer *httptest.Server
)

func TestServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Suite")
}

func suiteConfig() *config.File {
	file := config.Default()
	file.DisplayName = "Safe Mode"
	file.ShortcutHint = "shift+tab"
	file.ReadOnlyBashPatterns = []safety.PatternSpec{
		{Source: "ls( .*)?", Comment: "list files"},
		{Source: "git (status|log|diff)( .*)?", Comment: "git reads"},
	}
	file.ReadOnlyMcpPatterns = []string{"read_.*"}
	return file
}

var _ = BeforeSuite(func() {
	manager = permission.NewManager()
	Expect(manager.Apply(suiteConfig(), "suite")).To(Succeed())

	srv := server.New(server.DefaultConfig(), manager)
	testServer = httptest.NewServer(srv.Router())
})

var _ = AfterSuite(func() {
	if testServer != nil {
		testServer.Close()
	}
})
