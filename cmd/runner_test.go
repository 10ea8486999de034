package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/services"
	"github.com/syncup-music/syncup/internal/session"
	"github.com/syncup-music/syncup/internal/shared"
	tu "github.com/syncup-music/syncup/internal/testing"
	"github.com/urfave/cli/v3"
)

// fakeToken builds a three-segment token whose payload carries the given claims.
func fakeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("failed to marshal claims: %v", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return "header." + encoded + ".sig"
}

// testRunner wires a Runner against an httptest server with a signed-in store.
func testRunner(t *testing.T, handler http.Handler, token string) (*Runner, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewStore(session.NewMemoryStorage())
	if token != "" {
		if err := store.Login(token); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}

	service := services.NewSyncUpService(server.URL, store, nil, 100)
	output := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Store:   store,
		Service: service,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
	})
	return runner, output
}

// runCommand executes a CLI invocation against the runner's command tree.
func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "syncup", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"syncup"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil store creates empty session", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.store == nil {
				t.Error("expected default store to be set")
			}
			if !runner.store.Identity().Empty() {
				t.Error("expected default store to be signed out")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("builds library engine", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writeSongList", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writeSongList([]models.Song{
			{ID: "1", Title: "First", Artist: "Band", Genre: "Rock", Duration: 185},
			{ID: "2", Title: "Second", Artist: "Duo"},
		})

		result := output.String()
		if !strings.Contains(result, "1. Band - First [Rock] (3:05)") {
			t.Errorf("expected full song line, got %q", result)
		}
		if !strings.Contains(result, "2. Duo - Second\n") {
			t.Errorf("expected bare song line, got %q", result)
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 9 {
			t.Errorf("expected 9 top-level commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			} else if cmd.Name == "" {
				t.Errorf("command at index %d has no name", i)
			}
		}
	})

	t.Run("currentUser", func(t *testing.T) {
		t.Run("uses the signed-in identity", func(t *testing.T) {
			store := session.NewStore(session.NewMemoryStorage())
			token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
			if err := store.Login(token); err != nil {
				t.Fatalf("failed to seed session: %v", err)
			}

			runner := NewRunner(RunnerOpts{Store: store})
			username, err := runner.currentUser(&cli.Command{})

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if username != "alice" {
				t.Errorf("expected alice, got %q", username)
			}
		})

		t.Run("fails when signed out", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if _, err := runner.currentUser(&cli.Command{}); err == nil {
				t.Fatal("expected error when signed out")
			}
		})
	})

	t.Run("SetLogger", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		replacement := shared.NewLogger(io.Discard)

		runner.SetLogger(replacement)

		if runner.logger != replacement {
			t.Error("expected logger to be replaced")
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login stores the session token", func(t *testing.T) {
		token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/usuarios/login", func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Query().Get("username") != "alice" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"token": token})
		})

		runner, output := testRunner(t, mux, "")
		err := runCommand(t, runner, "auth", "login", "alice", "--password", "pw")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Signed in as alice") {
			t.Errorf("expected sign-in confirmation, got %q", output.String())
		}
		if runner.store.Identity().Username != "alice" {
			t.Errorf("expected store to hold alice, got %q", runner.store.Identity().Username)
		}
	})

	t.Run("login routes admin tokens to the admin slot", func(t *testing.T) {
		token := fakeToken(t, map[string]any{"sub": "root", "rol": "ADMIN"})
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/usuarios/login", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"token": token})
		})

		runner, output := testRunner(t, mux, "")
		if err := runCommand(t, runner, "auth", "login", "root", "--password", "pw"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "(admin)") {
			t.Errorf("expected admin marker, got %q", output.String())
		}
		if !runner.store.Admin() {
			t.Error("expected store to report admin privileges")
		}
	})

	t.Run("login prompts for a missing password", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/usuarios/login", func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Query().Get("password") != "typed" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
			json.NewEncoder(w).Encode(map[string]string{"token": token})
		})

		runner, _ := testRunner(t, mux, "")
		runner.input = strings.NewReader("typed\n")

		if err := runCommand(t, runner, "auth", "login", "alice"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("register prints the server confirmation", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/usuarios/registrar", func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, "user bob registered")
		})

		runner, output := testRunner(t, mux, "")
		err := runCommand(t, runner, "auth", "register", "bob", "--password", "pw")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "user bob registered") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
		if !runner.store.Identity().Empty() {
			t.Error("expected no session after register")
		}
	})

	t.Run("logout clears tokens even when the server fails", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/usuarios/logout", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
		runner, output := testRunner(t, mux, token)

		if err := runCommand(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !runner.store.Identity().Empty() {
			t.Error("expected session to be cleared")
		}
		if !strings.Contains(output.String(), "Signed out") {
			t.Errorf("expected sign-out confirmation, got %q", output.String())
		}
	})

	t.Run("status reports signed out", func(t *testing.T) {
		runner, output := testRunner(t, http.NewServeMux(), "")

		if err := runCommand(t, runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Not signed in") {
			t.Errorf("expected signed-out status, got %q", output.String())
		}
	})
}

func TestSongCommands(t *testing.T) {
	catalog := []models.Song{
		{ID: "s1", Title: "First", Artist: "Band", Genre: "Rock", Duration: 180},
		{ID: "s2", Title: "Second", Artist: "Duo", Genre: "Jazz", Duration: 210},
	}

	t.Run("list prints the catalog", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/canciones", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(catalog)
		})

		token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
		runner, output := testRunner(t, mux, token)

		if err := runCommand(t, runner, "songs", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1. Band - First [Rock] (3:00)") {
			t.Errorf("expected catalog listing, got %q", output.String())
		}
	})

	t.Run("search restricted to one field", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/canciones/buscar", func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Query().Get("genero") != "Jazz" {
				t.Errorf("expected genero query, got %v", req.URL.Query())
			}
			json.NewEncoder(w).Encode(catalog[1:])
		})

		token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
		runner, output := testRunner(t, mux, token)

		if err := runCommand(t, runner, "songs", "search", "Jazz", "--field", "genero"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Duo - Second") {
			t.Errorf("expected search hit, got %q", output.String())
		}
	})

	t.Run("radio leads with the seed song", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/canciones/s1", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(catalog[0])
		})
		mux.HandleFunc("GET /api/canciones/s1/radio", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(catalog[1:])
		})

		token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
		runner, output := testRunner(t, mux, token)

		if err := runCommand(t, runner, "songs", "radio", "s1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Radio: Band - First") {
			t.Errorf("expected radio header, got %q", result)
		}
		if !strings.Contains(result, "1. Band - First") || !strings.Contains(result, "2. Duo - Second") {
			t.Errorf("expected seed-led queue, got %q", result)
		}
	})
}

func TestFavoriteCommands(t *testing.T) {
	token := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})

	t.Run("add reports the refreshed favorite count", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/usuarios/alice/favoritos/agregar", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		mux.HandleFunc("GET /api/usuarios/alice/favoritos", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode([]models.Song{{ID: "s1", Title: "First", Artist: "Band"}})
		})

		runner, output := testRunner(t, mux, token)

		if err := runCommand(t, runner, "favorites", "add", "s1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Added to favorites") {
			t.Errorf("expected add confirmation, got %q", result)
		}
		if !strings.Contains(result, "1 songs") {
			t.Errorf("expected refreshed count, got %q", result)
		}
	})

	t.Run("rejected mutation surfaces the server state", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/usuarios/alice/favoritos/agregar", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "favorito duplicado"})
		})
		mux.HandleFunc("GET /api/usuarios/alice/favoritos", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode([]models.Song{})
		})

		runner, output := testRunner(t, mux, token)

		if err := runCommand(t, runner, "favorites", "add", "s1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "rejected") {
			t.Errorf("expected rejection notice, got %q", output.String())
		}
	})

	t.Run("export writes the server document", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/usuarios/alice/favoritos/export", func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, "ID,Title\ns1,First\n")
		})

		runner, output := testRunner(t, mux, token)
		tmpDir := t.TempDir()
		path := tmpDir + "/favorites.csv"

		if err := runCommand(t, runner, "favorites", "export", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Server export saved") {
			t.Errorf("expected server export notice, got %q", output.String())
		}
		tu.AssertFileExists(t, path)
	})
}

func TestAdminCommands(t *testing.T) {
	adminToken := fakeToken(t, map[string]any{"sub": "root", "rol": "ADMIN"})

	t.Run("user delete aborts without confirmation", func(t *testing.T) {
		deleted := false
		mux := http.NewServeMux()
		mux.HandleFunc("DELETE /api/usuarios/eliminar", func(w http.ResponseWriter, req *http.Request) {
			deleted = true
		})

		runner, output := testRunner(t, mux, adminToken)
		runner.input = strings.NewReader("n\n")

		if err := runCommand(t, runner, "admin", "users", "delete", "bob"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if deleted {
			t.Error("expected no delete request after declined confirmation")
		}
		if !strings.Contains(output.String(), "Aborted") {
			t.Errorf("expected abort notice, got %q", output.String())
		}
	})

	t.Run("user delete with --yes skips the prompt", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("DELETE /api/usuarios/eliminar", func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Query().Get("username") != "bob" {
				t.Errorf("expected username query, got %v", req.URL.Query())
			}
			w.WriteHeader(http.StatusNoContent)
		})

		runner, output := testRunner(t, mux, adminToken)

		if err := runCommand(t, runner, "admin", "users", "delete", "bob", "--yes"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "User bob deleted") {
			t.Errorf("expected delete confirmation, got %q", output.String())
		}
	})

	t.Run("user delete rejects the signed-in account", func(t *testing.T) {
		runner, _ := testRunner(t, http.NewServeMux(), adminToken)

		err := runCommand(t, runner, "admin", "users", "delete", "root", "--yes")
		if err == nil {
			t.Fatal("expected error when deleting own account")
		}
		if !strings.Contains(err.Error(), "signed-in account") {
			t.Errorf("expected self-delete rejection, got %v", err)
		}
	})

	t.Run("metrics renders rankings in descending order", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/metricas/descargas-favoritos/dia", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]int64{"2026-08-01": 3})
		})
		mux.HandleFunc("GET /api/metricas/usuarios/top-exportadores", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode([]models.TopUser{{Username: "alice", Total: 7}})
		})
		mux.HandleFunc("GET /api/metricas/favoritos/top-artistas", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]int64{"Band": 2, "Duo": 5})
		})
		mux.HandleFunc("GET /api/metricas/favoritos/top-generos", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]int64{"Rock": 4})
		})

		runner, output := testRunner(t, mux, adminToken)

		if err := runCommand(t, runner, "admin", "metrics"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "2026-08-01: 3") {
			t.Errorf("expected daily counts, got %q", result)
		}
		if !strings.Contains(result, "1. alice (7)") {
			t.Errorf("expected exporter ranking, got %q", result)
		}
		duo := strings.Index(result, "Duo (5)")
		band := strings.Index(result, "Band (2)")
		if duo == -1 || band == -1 || duo > band {
			t.Errorf("expected artists ranked descending, got %q", result)
		}
	})

	t.Run("non-admin request surfaces the privilege error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/usuarios/listar", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		userToken := fakeToken(t, map[string]any{"sub": "alice", "rol": "USER"})
		runner, _ := testRunner(t, mux, userToken)

		err := runCommand(t, runner, "admin", "users", "list")
		if err == nil {
			t.Fatal("expected error for forbidden request")
		}
		if !strings.Contains(err.Error(), shared.ErrNotAuthorized.Error()) {
			t.Errorf("expected privilege error, got %v", err)
		}
	})
}
