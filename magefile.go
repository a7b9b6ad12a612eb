//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "drillmaster"

// Default target to run when none is specified
var Default = Build

// Build builds the drillmaster binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/drillmaster")
}

// Install installs drillmaster into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/drillmaster")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint when it is installed
func Lint() error {
	if err := sh.Run("which", "golangci-lint"); err != nil {
		fmt.Println("golangci-lint not found, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run")
}

// Check runs vet, lint and the tests
func Check() {
	mg.SerialDeps(Vet, Lint, Test)
}

// Clean removes the binary
func Clean() error {
	return os.RemoveAll(binary)
}
