package testsupport

import (
	"fmt"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/tuido/model"
	"github.com/amonks/tuido/syncapi"
	"github.com/rogpeppe/go-internal/testscript"
)

// ServerToken is the API token the script sync server accepts.
const ServerToken = "test-token"

// ServerInbox is the inbox project the script sync server reports.
const ServerInbox = "inbox-1"

var (
	buildOnce sync.Once
	tuidoPath string
	buildErr  error
)

type serverKey struct{}

// BuildTuido builds the tuido binary once and returns its path.
func BuildTuido(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "tuido-bin-")
		if err != nil {
			buildErr = err
			return
		}

		tuidoPath = filepath.Join(binDir, "tuido")
		cmd := exec.Command("go", "build", "-o", tuidoPath, "./cmd/tuido")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build tuido: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return tuidoPath
}

// SetupScriptEnv configures common environment variables for testscript:
// $TUIDO is the binary, HOME and TUIDO_LOCAL_DIR point into the work
// directory, and TUIDO_SYNC_URL points at a fresh in-memory sync server.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TUIDO", BuildTuido(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureLocalDir(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("TUIDO_LOCAL_DIR", filepath.Join(env.WorkDir, "tuido"))

	server := syncapi.NewServer(syncapi.ServerOptions{
		Token: ServerToken,
		User:  model.User{FullName: "Script User", InboxProjectID: ServerInbox},
	})
	httpServer := httptest.NewServer(server.Handler())
	env.Defer(httpServer.Close)
	env.Values[serverKey{}] = server
	env.Setenv("TUIDO_SYNC_URL", httpServer.URL)
	return nil
}

// Commands returns the custom script commands.
func Commands() map[string]func(ts *testscript.TestScript, neg bool, args []string) {
	return map[string]func(ts *testscript.TestScript, neg bool, args []string){
		"envset":     CmdEnvSet,
		"serveritem": CmdServerItem,
		"serverfail": CmdServerFail,
		"serverhas":  CmdServerHas,
	}
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdServerItem creates an inbox item on the sync server, as another
// device would.
func CmdServerItem(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("serveritem does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: serveritem CONTENT")
	}
	item := scriptServer(ts).AddItem("", args[0])
	ts.Logf("server item %s: %s", item.ID, item.Content)
}

// CmdServerFail makes the next N sync requests fail.
func CmdServerFail(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("serverfail does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: serverfail N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		ts.Fatalf("serverfail: invalid count %q", args[0])
	}
	scriptServer(ts).FailNext(n)
}

// CmdServerHas checks that the sync server holds an item with CONTENT,
// checked if -checked is given.
func CmdServerHas(ts *testscript.TestScript, neg bool, args []string) {
	checked := false
	if len(args) > 0 && args[0] == "-checked" {
		checked = true
		args = args[1:]
	}
	if len(args) != 1 {
		ts.Fatalf("usage: serverhas [-checked] CONTENT")
	}

	found := false
	for _, item := range scriptServer(ts).Items() {
		if item.Content == args[0] && (!checked || item.Checked) {
			found = true
			break
		}
	}
	switch {
	case neg && found:
		ts.Fatalf("server unexpectedly has item %q", args[0])
	case !neg && !found:
		ts.Fatalf("server has no item %q (checked=%t)", args[0], checked)
	}
}

func scriptServer(ts *testscript.TestScript) *syncapi.Server {
	server, ok := ts.Value(serverKey{}).(*syncapi.Server)
	if !ok {
		ts.Fatalf("no sync server in this script")
	}
	return server
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
