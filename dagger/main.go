// Package main provides a Dagger module for building and deploying the unban manager.
//
// The module is designed to be used with the Dagger CLI or SDKs to automate
// build and deployment workflows.
package main

import (
	"context"
	"dagger/unbanmanager/internal/dagger"
	"fmt"
	"strings"
)

const goImage = "golang:1.24.2-alpine"

// binaries built into the release image.
var binaries = []string{"bot", "db", "entrypoint"}

type Unbanmanager struct{}

// BuildContainer creates a container image for the project.
func (m *Unbanmanager) BuildContainer(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
	// Platform to build for
	// +optional
	// +default="linux/amd64"
	platform *dagger.Platform,
) (*dagger.Container, error) {
	buildPlatform := dagger.Platform("linux/amd64")
	if platform != nil {
		buildPlatform = *platform
	}

	platformArch, err := dag.Containerd().ArchitectureOf(ctx, buildPlatform)
	if err != nil {
		return nil, fmt.Errorf("failed to get architecture: %w", err)
	}

	// modernc.org/sqlite is pure Go so the binaries stay static
	buildCtr := goContainer(src).
		WithEnvVariable("GOOS", "linux").
		WithEnvVariable("GOARCH", platformArch).
		WithExec([]string{"apk", "add", "--no-cache", "upx", "ca-certificates"}).
		WithExec([]string{"mkdir", "-p", "/src/bin", "/src/logs", "/src/data"})

	for _, binary := range binaries {
		buildCtr = buildCtr.
			WithExec([]string{"go", "build", "-ldflags=-s -w", "-o", "/src/bin/" + binary, "./cmd/" + binary}).
			WithExec([]string{"upx", "--best", "--lzma", "/src/bin/" + binary})
	}

	return dag.Container(dagger.ContainerOpts{Platform: buildPlatform}).
		From("gcr.io/distroless/static-debian12:latest").
		WithDirectory("/app/bin", buildCtr.Directory("/src/bin")).
		WithDirectory("/app/logs", buildCtr.Directory("/src/logs")).
		WithDirectory("/app/data", buildCtr.Directory("/src/data")).
		WithFile("/etc/ssl/certs/ca-certificates.crt", buildCtr.File("/etc/ssl/certs/ca-certificates.crt")).
		WithWorkdir("/app").
		WithEntrypoint([]string{"/app/bin/entrypoint"}).
		WithEnvVariable("RUN_TYPE", "bot"), nil
}

// Test runs the unit tests.
func (m *Unbanmanager) Test(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
) (string, error) {
	return goContainer(src).
		WithExec([]string{"go", "test", "./..."}).
		Stdout(ctx)
}

// Publish the application container after building and testing it.
func (m *Unbanmanager) Publish(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
	// Docker image name (e.g. "username/repo:tag")
	// +required
	imageName string,
	// Platforms to build for (comma-separated, e.g. "linux/amd64,linux/arm64")
	// +optional
	// +default="linux/amd64"
	platforms string,
) (string, error) {
	if _, err := m.Test(ctx, src); err != nil {
		return "", fmt.Errorf("tests failed: %w", err)
	}

	platformList := []dagger.Platform{"linux/amd64"}
	if platforms != "" {
		platformList = platformList[:0]
		for _, p := range strings.Split(platforms, ",") {
			platformList = append(platformList, dagger.Platform(strings.TrimSpace(p)))
		}
	}

	platformVariants := make([]*dagger.Container, 0, len(platformList))
	for _, platform := range platformList {
		container, err := m.BuildContainer(ctx, src, &platform)
		if err != nil {
			return "", fmt.Errorf("failed to build container for %s: %w", platform, err)
		}
		platformVariants = append(platformVariants, container)
	}

	ref, err := dag.Container().Publish(ctx, imageName, dagger.ContainerPublishOpts{
		PlatformVariants: platformVariants,
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish image: %w", err)
	}

	return ref, nil
}

// Run the program with specified command and config files.
func (m *Unbanmanager) Run(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
	// Config directory containing common.toml and bot.toml
	// +required
	configDir *dagger.Directory,
	// Command to run: "bot" or "db"
	// +required
	cmd string,
	// Arguments for the db command (e.g. "migrate" or "ledger search 1 2")
	// +optional
	args string,
) (*dagger.Container, error) {
	if cmd != "bot" && cmd != "db" {
		return nil, fmt.Errorf("unknown command %q: must be bot or db", cmd)
	}

	runCtr := goContainer(src).
		WithDirectory("/etc/unbanmanager/config", configDir).
		WithExec([]string{"apk", "add", "--no-cache", "ca-certificates"}).
		WithExec([]string{"go", "build", "-o", "/src/bin/" + cmd, "./cmd/" + cmd})

	return runCtr.WithExec(append([]string{"/src/bin/" + cmd}, strings.Fields(args)...)), nil
}

// goContainer returns a Go toolchain container with the source mounted.
func goContainer(src *dagger.Directory) *dagger.Container {
	return dag.Container().
		From(goImage).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithDirectory("/src", src).
		WithWorkdir("/src").
		WithEnvVariable("CGO_ENABLED", "0")
}
