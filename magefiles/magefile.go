//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var binaries = map[string]string{
	"bin/directory-server": "./cmd/server",
	"bin/directory-devapi": "./cmd/devapi",
}

// Build tidies deps, then compiles the front end and the dev API into ./bin.
func Build() error {
	mg.Deps(Tidy)
	for out, pkg := range binaries {
		fmt.Println(">> Building", out, "...")
		if err := sh.Run("go", "build", "-o", out, pkg); err != nil {
			return err
		}
	}
	return nil
}

// Run builds then executes the front end binary.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting directory on :8080 ...")
	return sh.Run("./bin/directory-server")
}

// Dev runs the dev API on :8000 in the background and the front end in the
// foreground against it. Ctrl-C stops both.
func Dev() error {
	fmt.Println(">> Starting dev API (go run)...")
	api := exec.Command("go", "run", "./cmd/devapi")
	api.Stdout = os.Stdout
	api.Stderr = os.Stderr
	api.Env = append(os.Environ(), "DEVAPI_PORT=8000")
	if err := api.Start(); err != nil {
		return fmt.Errorf("start dev api: %w", err)
	}

	fmt.Println(">> Starting directory (go run)...")
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	server.Env = append(os.Environ(),
		"PORT=8080",
		"APP_ENV=development",
		"DIRECTORY_API_URL=http://localhost:8000/api/v1",
	)
	if err := server.Start(); err != nil {
		api.Process.Kill()
		return fmt.Errorf("start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n>> Shutting down...")
	server.Process.Signal(syscall.SIGTERM)
	api.Process.Signal(syscall.SIGTERM)
	server.Wait()
	api.Wait()
	return nil
}

// Seed replaces the dev API's employees with the bundled sample set.
func Seed() error {
	fmt.Println(">> Seeding", dbPath(), "...")
	return sh.Run("go", "run", "./cmd/devapi", "-reseed", "-seed-only")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests with the race detector.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	return sh.Rm(dbPath())
}

// Install installs both binaries to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	for _, pkg := range binaries {
		if err := sh.Run("go", "install", pkg); err != nil {
			return err
		}
	}
	return nil
}

func dbPath() string {
	if p := os.Getenv("DB_PATH"); p != "" {
		return p
	}
	return "directory.db"
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
