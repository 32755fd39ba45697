package server_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opencode-ai/safemode/internal/event"
	"github.com/opencode-ai/safemode/internal/server"
)

func postJSON(path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return http.Post(testServer.URL+path, "application/json", bytes.NewReader(data))
}

func decode[T any](resp *http.Response) T {
	GinkgoHelper()
	defer resp.Body.Close()
	var out T
	Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
	return out
}

var _ = Describe("Server Endpoints", func() {
	Describe("POST /classify", func() {
		It("allows a command matching a read-only pattern", func() {
			resp, err := postJSON("/classify", map[string]string{
				"command":   "ls -la",
				"sessionID": "s1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			decision := decode[server.ClassifyResponse](resp)
			Expect(decision.Allowed).To(BeTrue())
			Expect(decision.Reason).To(BeEmpty())
		})

		It("rejects a command with no matching pattern", func() {
			resp, err := postJSON("/classify", map[string]string{
				"command":   "rm -rf /",
				"sessionID": "s1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			decision := decode[server.ClassifyResponse](resp)
			Expect(decision.Allowed).To(BeFalse())
			Expect(decision.Reason).To(Equal("no_safe_pattern"))
			Expect(decision.Message).To(ContainSubstring("Safe Mode"))
		})

		It("rejects command substitution", func() {
			resp, err := postJSON("/classify", map[string]string{
				"command": "ls $(pwd)",
			})
			Expect(err).NotTo(HaveOccurred())

			decision := decode[server.ClassifyResponse](resp)
			Expect(decision.Allowed).To(BeFalse())
			Expect(decision.Reason).To(Equal("dangerous_substitution"))
		})

		It("rejects invalid JSON", func() {
			resp, err := http.Post(testServer.URL+"/classify", "application/json",
				strings.NewReader("{not json"))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /classify/tool", func() {
		It("refuses a hard-blocked tool", func() {
			resp, err := postJSON("/classify/tool", map[string]string{
				"tool": "write",
			})
			Expect(err).NotTo(HaveOccurred())

			decision := decode[server.ClassifyResponse](resp)
			Expect(decision.Allowed).To(BeFalse())
			Expect(decision.Message).To(ContainSubstring("write"))
		})

		It("allows a tool matching a read-only name pattern", func() {
			resp, err := postJSON("/classify/tool", map[string]string{
				"tool": "read_file",
			})
			Expect(err).NotTo(HaveOccurred())

			decision := decode[server.ClassifyResponse](resp)
			Expect(decision.Allowed).To(BeTrue())
		})

		It("requires a tool name", func() {
			resp, err := postJSON("/classify/tool", map[string]string{})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /mode", func() {
		It("describes the active mode", func() {
			resp, err := http.Get(testServer.URL + "/mode")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			mode := decode[server.ModeResponse](resp)
			Expect(mode.DisplayName).To(Equal("Safe Mode"))
			Expect(mode.ShortcutHint).To(Equal("shift+tab"))
			Expect(mode.BlockedTools).To(ContainElements("write", "edit"))
			Expect(mode.Patterns).To(HaveLen(2))
			Expect(mode.Patterns[0].Source).To(Equal("ls( .*)?"))
			Expect(mode.Patterns[0].Comment).To(Equal("list files"))
		})
	})

	Describe("POST /mode/reload", func() {
		AfterEach(func() {
			Expect(manager.Apply(suiteConfig(), "suite")).To(Succeed())
		})

		It("reloads configuration through the manager", func() {
			resp, err := postJSON("/mode/reload", nil)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			// No config file in the test directory: the deny-everything
			// default applies.
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			check, err := postJSON("/classify", map[string]string{"command": "ls"})
			Expect(err).NotTo(HaveOccurred())
			decision := decode[server.ClassifyResponse](check)
			Expect(decision.Allowed).To(BeFalse())
		})
	})

	Describe("GET /health", func() {
		It("reports ok", func() {
			resp, err := http.Get(testServer.URL + "/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})

	Describe("GET /event", func() {
		It("streams bus events over SSE", func() {
			req, err := http.NewRequest(http.MethodGet, testServer.URL+"/event", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.Header.Get("Content-Type")).To(Equal("text/event-stream"))

			reader := bufio.NewReader(resp.Body)

			// First payload is the connected handshake.
			Eventually(func() string {
				line, _ := reader.ReadString('\n')
				return line
			}, 5*time.Second).Should(ContainSubstring("server.connected"))

			event.Publish(event.Event{
				Type: event.CommandRejected,
				Data: event.CommandRejectedData{ID: "evt-1", Command: "rm -rf /"},
			})

			Eventually(func() string {
				line, _ := reader.ReadString('\n')
				return line
			}, 5*time.Second).Should(ContainSubstring("command.rejected"))
		})
	})
})
