package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/fleet"
	"github.com/nerrad567/impt/internal/infrastructure/config"
	"github.com/nerrad567/impt/internal/infrastructure/database"
	"github.com/nerrad567/impt/internal/infrastructure/logging"
	"github.com/nerrad567/impt/internal/project"
	"github.com/nerrad567/impt/internal/resolver"
	"github.com/nerrad567/impt/internal/sandbox"
	"github.com/nerrad567/impt/migrations"
)

const fixture = `
accounts:
  - username: alice
    email: alice@example.com
    devices:
      - {name: kitchen, mac_address: "0c:2a:69:00:00:01"}
      - {name: hall, mac_address: "0c:2a:69:00:00:02"}
      - {name: spare, mac_address: "0c:2a:69:00:00:03"}
    products:
      - name: Thermostats
        device_groups:
          - name: dev
            devices: [kitchen, hall]
            deployments:
              - {sha: 4b825dc, description: first}
              - {sha: 9f1e2aa, description: second}
          - name: factory
            type: factory
  - username: bob
    email: bob@example.com
    products:
      - name: Thermostats
        device_groups:
          - name: dev
`

type cliEnv struct {
	repo       *fleet.Repository
	endpoint   string
	configPath string
	workDir    string
}

// setupCLI serves a seeded sandbox, writes a config file pointing at it
// and logs in as alice.
func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := fleet.NewRepository(db)
	f, err := sandbox.LoadFixture(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}
	if _, err := sandbox.Seed(ctx, repo, f); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	srv, err := sandbox.New(sandbox.Deps{
		Security: config.SecurityConfig{JWT: config.JWTConfig{Secret: "test-secret-key-for-jwt-signing-000", AccessTokenTTL: 60}},
		Logger:   logging.NewWithWriter(io.Discard, config.LoggingConfig{Level: "error"}, "impt-sandbox", "test"),
		Fleet:    repo,
	})
	if err != nil {
		t.Fatalf("sandbox.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	env := &cliEnv{
		repo:       repo,
		endpoint:   ts.URL,
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
		workDir:    t.TempDir(),
	}
	env.writeConfig(t, ts.URL)

	if code, _, stderr := env.run(t, "login", "--user", "alice"); code != ExitOK {
		t.Fatalf("login exit = %d, stderr %q", code, stderr)
	}
	return env
}

func (env *cliEnv) writeConfig(t *testing.T, endpoint string) {
	t.Helper()
	content := "platform:\n  endpoint: " + endpoint + "\n"
	if err := os.WriteFile(env.configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func (env *cliEnv) run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	return env.runWithInput(t, "", args...)
}

func (env *cliEnv) runWithInput(t *testing.T, input string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{in: strings.NewReader(input), out: &out, errOut: &errOut, workDir: env.workDir}
	code = a.run(context.Background(), append(args, "--config", env.configPath))
	return code, out.String(), errOut.String()
}

// runJSON runs a command with -z json and decodes its output.
func (env *cliEnv) runJSON(t *testing.T, args ...string) map[string]any {
	t.Helper()
	code, stdout, stderr := env.run(t, append(args, "-z", "json")...)
	if code != ExitOK {
		t.Fatalf("%v exit = %d, stderr %q", args, code, stderr)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(stdout), &m); err != nil {
		t.Fatalf("%v output %q is not JSON: %v", args, stdout, err)
	}
	return m
}

func (env *cliEnv) entity(t *testing.T, typ entity.Type, name string, scope resolver.Scope) entity.Entity {
	t.Helper()
	found, err := env.repo.Find(context.Background(), typ, entity.AttrName, name, scope)
	if err != nil || len(found) != 1 {
		t.Fatalf("Find(%s %q) = %v, %v", typ, name, found, err)
	}
	return found[0]
}

func (env *cliEnv) alice(t *testing.T) entity.Entity {
	t.Helper()
	found, err := env.repo.Find(context.Background(), entity.TypeAccount, entity.AttrUsername, "alice", resolver.Scope{})
	if err != nil || len(found) != 1 {
		t.Fatalf("Find(alice) = %v, %v", found, err)
	}
	return found[0]
}

// dig walks nested JSON objects by key.
func dig(t *testing.T, v any, keys ...string) any {
	t.Helper()
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			t.Fatalf("at %q: %T is not an object", k, v)
		}
		v, ok = m[k]
		if !ok {
			t.Fatalf("key %q missing in %v", k, m)
		}
	}
	return v
}

func TestLogin_StoresToken(t *testing.T) {
	env := setupCLI(t)

	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if !strings.Contains(string(data), "token:") {
		t.Errorf("config %q has no token after login", data)
	}

	out := env.runJSON(t, "account", "info")
	if got := dig(t, out, "Account", "username"); got != "alice" {
		t.Errorf("Account.username = %v, want alice", got)
	}

	out = env.runJSON(t, "account", "info", "-u", "bob@example.com")
	if got := dig(t, out, "Account", "username"); got != "bob" {
		t.Errorf("Account.username = %v, want bob", got)
	}

	out = env.runJSON(t, "account", "info", "-u", "me")
	if got := dig(t, out, "Account", "username"); got != "alice" {
		t.Errorf("Account.username for me = %v, want alice", got)
	}
}

func TestDeviceInfo_IdentifierForms(t *testing.T) {
	env := setupCLI(t)
	kitchen := env.entity(t, entity.TypeDevice, "kitchen", resolver.Scope{})

	refs := []string{
		kitchen.ID,
		"kitchen",
		"0c:2a:69:00:00:01",
		kitchen.Attr(entity.AttrAgentID),
		"{me}{Thermostats}{kitchen}",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			out := env.runJSON(t, "device", "info", "--device", ref)
			if got := dig(t, out, "Device", "id"); got != kitchen.ID {
				t.Errorf("Device.id = %v, want %q", got, kitchen.ID)
			}
			if got := dig(t, out, "Device", "Device Group", "name"); got != "dev" {
				t.Errorf("Device Group name = %v, want dev", got)
			}
			if got := dig(t, out, "Device", "Product", "name"); got != "Thermostats" {
				t.Errorf("Product name = %v, want Thermostats", got)
			}
		})
	}
}

func TestDeviceInfo_Full(t *testing.T) {
	env := setupCLI(t)
	dev := env.entity(t, entity.TypeDeviceGroup, "dev", resolver.Scope{OwnerID: env.alice(t).ID})
	build, err := env.repo.CurrentDeployment(context.Background(), dev.ID)
	if err != nil || build == nil {
		t.Fatalf("CurrentDeployment() = %v, %v", build, err)
	}

	shallow := env.runJSON(t, "device", "info", "-d", "kitchen")
	group := dig(t, shallow, "Device", "Device Group").(map[string]any)
	if _, ok := group["Current Deployment"]; ok {
		t.Error("shallow info includes Current Deployment")
	}

	full := env.runJSON(t, "device", "info", "-d", "kitchen", "-u")
	if got := dig(t, full, "Device", "Device Group", "Current Deployment", "id"); got != build.ID {
		t.Errorf("Current Deployment id = %v, want %q", got, build.ID)
	}
}

func TestDeviceInfo_Unassigned(t *testing.T) {
	env := setupCLI(t)

	out := env.runJSON(t, "device", "info", "-d", "spare", "--full")
	device := dig(t, out, "Device").(map[string]any)
	if _, ok := device["Device Group"]; ok {
		t.Error("unassigned device shows a Device Group")
	}
	if _, ok := device["Product"]; ok {
		t.Error("unassigned device shows a Product")
	}
	if got := device["agent_id"]; got != "" {
		t.Errorf("agent_id = %v, want empty string", got)
	}
}

func TestDeviceInfo_Minimal(t *testing.T) {
	env := setupCLI(t)

	code, stdout, _ := env.run(t, "device", "info", "-d", "kitchen")
	if code != ExitOK {
		t.Fatalf("exit = %d, want %d", code, ExitOK)
	}
	for _, want := range []string{"Device:", "mac_address: 0c2a69000001", "Device Group:", "Product:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output %q does not contain %q", stdout, want)
		}
	}
}

func TestExitCodes(t *testing.T) {
	env := setupCLI(t)

	tests := []struct {
		name    string
		args    []string
		want    int
		message string
	}{
		{"device not found", []string{"device", "info", "-d", "not-exist-device"}, ExitNotFound, `Device "not-exist-device" is not found`},
		{"flag without value", []string{"device", "info", "-d"}, ExitUsage, "flag needs an argument"},
		{"no device and no project", []string{"device", "info"}, ExitNoIdentifier, "no Device identifier is specified"},
		{"ambiguous group", []string{"dg", "info", "-g", "dev"}, ExitAmbiguous, "multiple Device Groups"},
		{"empty owner", []string{"dg", "info", "-g", "{}{Thermostats}{dev}"}, ExitNoIdentifier, "no Account identifier"},
		{"empty product", []string{"dg", "info", "-g", "{me}{}{dev}"}, ExitNoIdentifier, "no Product identifier"},
		{"empty group", []string{"dg", "info", "-g", "{me}{Thermostats}{}"}, ExitNoIdentifier, "no Device Group identifier"},
		{"two groups", []string{"dg", "info", "-g", "{Thermostats}{dev}"}, ExitUsage, "invalid identifier"},
		{"group not found", []string{"dg", "info", "-g", "not-exist-device-group", "--full"}, ExitNotFound, `Device Group "not-exist-device-group" is not found`},
		{"unknown command", []string{"frobnicate"}, ExitUsage, "unknown command"},
		{"unknown flag", []string{"device", "info", "--colour"}, ExitUsage, "unknown flag"},
		{"bad output mode", []string{"device", "info", "-d", "kitchen", "-z", "yaml"}, ExitUsage, "unknown output mode"},
		{"positional argument", []string{"device", "info", "kitchen"}, ExitUsage, "unknown command"},
		{"update without name", []string{"device", "update", "-d", "kitchen"}, ExitUsage, "--name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := env.run(t, tt.args...)
			if code != tt.want {
				t.Errorf("exit = %d, want %d (stderr %q)", code, tt.want, stderr)
			}
			if !strings.Contains(stderr, tt.message) {
				t.Errorf("stderr %q does not contain %q", stderr, tt.message)
			}
		})
	}
}

func TestErrorOutput_JSON(t *testing.T) {
	env := setupCLI(t)

	code, _, stderr := env.run(t, "device", "info", "-d", "not-exist-device", "-z", "json")
	if code != ExitNotFound {
		t.Fatalf("exit = %d, want %d", code, ExitNotFound)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(stderr), &body); err != nil {
		t.Fatalf("stderr %q is not JSON: %v", stderr, err)
	}
	if got := dig(t, body, "error", "kind"); got != kindNotFound {
		t.Errorf("error.kind = %v, want %q", got, kindNotFound)
	}
}

func TestDeviceGroupInfo_Scoped(t *testing.T) {
	env := setupCLI(t)
	alice := env.alice(t)
	product := env.entity(t, entity.TypeProduct, "Thermostats", resolver.Scope{OwnerID: alice.ID})
	dev := env.entity(t, entity.TypeDeviceGroup, "dev", resolver.Scope{OwnerID: alice.ID})
	kitchen := env.entity(t, entity.TypeDevice, "kitchen", resolver.Scope{})
	hall := env.entity(t, entity.TypeDevice, "hall", resolver.Scope{})

	refs := []string{
		"{me}{Thermostats}{dev}",
		"{me}{" + product.ID + "}{" + dev.ID + "}",
		"{alice}{" + product.ID + "}{" + dev.ID + "}",
		"{alice@example.com}{Thermostats}{dev}",
		"{" + alice.ID + "}{Thermostats}{" + dev.ID + "}",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			out := env.runJSON(t, "dg", "info", "-g", ref, "-u")
			if got := dig(t, out, "Device Group", "id"); got != dev.ID {
				t.Errorf("Device Group.id = %v, want %q", got, dev.ID)
			}
			if got := dig(t, out, "Device Group", "Product", "id"); got != product.ID {
				t.Errorf("Product.id = %v, want %q", got, product.ID)
			}
			devices, ok := dig(t, out, "Device Group", "Devices").([]any)
			if !ok || len(devices) != 2 {
				t.Fatalf("Devices = %v, want 2 entries", devices)
			}
			if got := dig(t, devices[0], "Device", "id"); got != hall.ID {
				t.Errorf("Devices[0] = %v, want hall %q", got, hall.ID)
			}
			if got := dig(t, devices[1], "Device", "id"); got != kitchen.ID {
				t.Errorf("Devices[1] = %v, want kitchen %q", got, kitchen.ID)
			}
		})
	}
}

func TestDeviceGroupInfo_Project(t *testing.T) {
	env := setupCLI(t)
	dev := env.entity(t, entity.TypeDeviceGroup, "dev", resolver.Scope{OwnerID: env.alice(t).ID})

	pf := `{"deviceGroupId": "` + dev.ID + `", "deviceFile": "device.nut", "agentFile": "agent.nut"}`
	if err := os.WriteFile(filepath.Join(env.workDir, project.DefaultFileName), []byte(pf), 0o600); err != nil {
		t.Fatalf("writing project file: %v", err)
	}

	out := env.runJSON(t, "dg", "info", "-u")
	if got := dig(t, out, "Device Group", "id"); got != dev.ID {
		t.Errorf("Device Group.id = %v, want %q", got, dev.ID)
	}
	if _, ok := dig(t, out, "Device Group").(map[string]any)["Devices"]; !ok {
		t.Error("full info on the project group has no Devices")
	}

	shallow := env.runJSON(t, "dg", "info")
	if _, ok := dig(t, shallow, "Device Group").(map[string]any)["Devices"]; ok {
		t.Error("shallow info lists Devices")
	}

	out = env.runJSON(t, "product", "info")
	if got := dig(t, out, "Product", "name"); got != "Thermostats" {
		t.Errorf("project product = %v, want Thermostats", got)
	}
}

func TestDeviceRestart(t *testing.T) {
	env := setupCLI(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"device", "restart", "-d", "kitchen"}, `Device "kitchen" is restarted successfully.`},
		{[]string{"device", "restart", "-d", "0c2a69000001"}, `Device "0c2a69000001" is restarted successfully.`},
		{[]string{"device", "restart", "-c", "-d", "hall"}, `Device "hall" is conditionally restarted successfully.`},
	}
	for _, tt := range tests {
		code, stdout, stderr := env.run(t, tt.args...)
		if code != ExitOK {
			t.Errorf("%v exit = %d, stderr %q", tt.args, code, stderr)
			continue
		}
		if strings.TrimSpace(stdout) != tt.want {
			t.Errorf("%v output = %q, want %q", tt.args, stdout, tt.want)
		}
	}

	if code, _, _ := env.run(t, "device", "restart", "-d", "not-exist-device"); code != ExitNotFound {
		t.Errorf("restart unknown exit = %d, want %d", code, ExitNotFound)
	}
}

func TestDeviceRemove(t *testing.T) {
	env := setupCLI(t)
	hall := env.entity(t, entity.TypeDevice, "hall", resolver.Scope{})

	code, stdout, _ := env.runWithInput(t, "n\n", "device", "remove", "-d", "hall")
	if code != ExitOK || strings.TrimSpace(stdout) != "Operation is canceled." {
		t.Errorf("declined remove = %d %q, want canceled", code, stdout)
	}

	code, _, stderr := env.run(t, "device", "remove", "-d", "hall", "-q")
	if code != ExitError {
		t.Errorf("remove assigned exit = %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "--force") {
		t.Errorf("stderr %q does not suggest --force", stderr)
	}

	code, stdout, stderr = env.run(t, "device", "remove", "-d", "hall", "--force", "-q")
	if code != ExitOK {
		t.Fatalf("forced remove exit = %d, stderr %q", code, stderr)
	}
	if want := `Device "hall" is deleted successfully.`; strings.TrimSpace(stdout) != want {
		t.Errorf("output = %q, want %q", stdout, want)
	}

	if code, _, _ := env.run(t, "device", "info", "-d", hall.ID); code != ExitNotFound {
		t.Errorf("info after remove exit = %d, want %d", code, ExitNotFound)
	}

	code, _, _ = env.runWithInput(t, "yes\n", "device", "remove", "-d", "spare")
	if code != ExitOK {
		t.Errorf("confirmed remove of unassigned device exit = %d, want %d", code, ExitOK)
	}
}

func TestDeviceAssignment(t *testing.T) {
	env := setupCLI(t)

	code, stdout, stderr := env.run(t, "device", "assign", "-d", "spare", "-g", "{me}{Thermostats}{factory}")
	if code != ExitOK {
		t.Fatalf("assign exit = %d, stderr %q", code, stderr)
	}
	want := `Device "spare" is assigned successfully to Device Group "{me}{Thermostats}{factory}".`
	if strings.TrimSpace(stdout) != want {
		t.Errorf("output = %q, want %q", stdout, want)
	}

	out := env.runJSON(t, "device", "info", "-d", "spare")
	if got := dig(t, out, "Device", "Device Group", "name"); got != "factory" {
		t.Errorf("group = %v, want factory", got)
	}
	agentID, _ := dig(t, out, "Device", "agent_id").(string)
	if agentID == "" {
		t.Fatal("assigned device has no agent id")
	}

	out = env.runJSON(t, "device", "info", "-d", agentID)
	if got := dig(t, out, "Device", "name"); got != "spare" {
		t.Errorf("lookup by agent id = %v, want spare", got)
	}

	if code, _, stderr := env.run(t, "device", "unassign", "-d", "spare"); code != ExitOK {
		t.Fatalf("unassign exit = %d, stderr %q", code, stderr)
	}
	out = env.runJSON(t, "device", "info", "-d", "spare")
	if got := dig(t, out, "Device", "agent_id"); got != "" {
		t.Errorf("agent_id after unassign = %v, want empty", got)
	}

	if code, _, _ := env.run(t, "device", "assign", "-d", "spare"); code != ExitNoIdentifier {
		t.Errorf("assign without group exit = %d, want %d", code, ExitNoIdentifier)
	}
}

func TestDeviceUpdate_MakesNamesAmbiguous(t *testing.T) {
	env := setupCLI(t)

	code, stdout, _ := env.run(t, "device", "update", "-d", "spare", "--name", "kitchen")
	if code != ExitOK {
		t.Fatalf("update exit = %d", code)
	}
	if want := `Device "spare" is updated successfully.`; strings.TrimSpace(stdout) != want {
		t.Errorf("output = %q, want %q", stdout, want)
	}

	if code, _, _ := env.run(t, "device", "info", "-d", "kitchen"); code != ExitAmbiguous {
		t.Errorf("info by duplicated name exit = %d, want %d", code, ExitAmbiguous)
	}
	if code, _, _ := env.run(t, "device", "info", "-d", "0c:2a:69:00:00:03"); code != ExitOK {
		t.Errorf("info by mac exit = %d, want %d", code, ExitOK)
	}
}

func TestDeviceUpdate_ClearsName(t *testing.T) {
	env := setupCLI(t)

	if code, _, stderr := env.run(t, "device", "update", "-d", "spare", "--name", ""); code != ExitOK {
		t.Fatalf("update exit = %d, stderr %q", code, stderr)
	}

	info := env.runJSON(t, "device", "info", "-d", "0c:2a:69:00:00:03")
	if got := dig(t, info, "Device", entity.AttrName); got != "" {
		t.Errorf("name after clearing = %v, want empty", got)
	}
	if code, _, _ := env.run(t, "device", "info", "-d", "spare"); code != ExitNotFound {
		t.Errorf("info by old name exit = %d, want %d", code, ExitNotFound)
	}
}

func TestProductLifecycle(t *testing.T) {
	env := setupCLI(t)

	created := env.runJSON(t, "product", "create", "-n", "Sensors", "-s", "door sensors")
	productID, _ := dig(t, created, "Product", "id").(string)
	if productID == "" {
		t.Fatal("product create printed no id")
	}
	if got := dig(t, created, "message"); got != `Product "Sensors" is created successfully.` {
		t.Errorf("message = %v", got)
	}

	group := env.runJSON(t, "dg", "create", "-n", "qa", "-p", "Sensors", "--dg-type", "pre-production")
	groupID, _ := dig(t, group, "Device Group", "id").(string)

	deployed := env.runJSON(t, "build", "deploy", "-g", "{me}{Sensors}{qa}", "--sha", "c0ffee1")
	buildID, _ := dig(t, deployed, "Build", "id").(string)
	if buildID == "" {
		t.Fatal("build deploy printed no id")
	}

	info := env.runJSON(t, "dg", "info", "-g", groupID, "-u")
	if got := dig(t, info, "Device Group", "Current Deployment", "id"); got != buildID {
		t.Errorf("Current Deployment id = %v, want %q", got, buildID)
	}
	if got := dig(t, info, "Device Group", "type"); got != "pre-production" {
		t.Errorf("type = %v, want pre-production", got)
	}
	devices, _ := dig(t, info, "Device Group", "Devices").([]any)
	if len(devices) != 0 {
		t.Errorf("Devices = %v, want empty", devices)
	}

	if code, _, _ := env.run(t, "product", "delete", "-p", "Sensors", "-q"); code != ExitError {
		t.Errorf("delete in use exit = %d, want %d", code, ExitError)
	}
	if code, _, stderr := env.run(t, "product", "delete", "-p", "Sensors", "-f", "-q"); code != ExitOK {
		t.Errorf("forced delete exit = %d, stderr %q", code, stderr)
	}
	if code, _, _ := env.run(t, "product", "info", "-p", productID); code != ExitNotFound {
		t.Errorf("info after delete exit = %d, want %d", code, ExitNotFound)
	}
}

func TestUpstreamFailures(t *testing.T) {
	env := setupCLI(t)

	dead := httptest.NewServer(nil)
	dead.Close()
	env.writeConfig(t, dead.URL)
	if code, _, _ := env.run(t, "device", "info", "-d", "kitchen"); code != ExitUpstream {
		t.Errorf("unreachable platform exit = %d, want %d", code, ExitUpstream)
	}

	env.writeConfig(t, env.endpoint)
	code, _, stderr := env.run(t, "device", "info", "-d", "kitchen", "-z", "json")
	if code != ExitUpstream {
		t.Errorf("no token exit = %d, want %d", code, ExitUpstream)
	}
	if !strings.Contains(stderr, kindUnauthorized) {
		t.Errorf("stderr %q does not report %q", stderr, kindUnauthorized)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"not found", &resolver.NotFoundError{Type: entity.TypeDevice, Token: "x"}, ExitNotFound},
		{"ambiguous", &resolver.AmbiguousError{Type: entity.TypeDevice, Token: "x", Count: 2}, ExitAmbiguous},
		{"no identifier", &resolver.NoIdentifierError{Type: entity.TypeDevice}, ExitNoIdentifier},
		{"upstream", &resolver.UpstreamError{Op: "lookup", Err: io.ErrUnexpectedEOF}, ExitUpstream},
		{"generic", io.ErrUnexpectedEOF, ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := classify(tt.err); got != tt.want {
				t.Errorf("classify(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
