package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/launchwrap/launchwrap/internal/cli"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = ""
)

func buildVersion() string {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "dev"
	}
	c := strings.TrimSpace(commit)
	if c != "" && !strings.EqualFold(c, "unknown") && !strings.Contains(v, c) {
		v += "+" + c
	}
	return v
}

func main() {
	err := cli.NewRoot(buildVersion()).ExecuteContext(context.Background())
	if err == nil {
		return
	}
	var ee *cli.ExitError
	if errors.As(err, &ee) {
		if ee.Message != "" {
			fmt.Fprintln(os.Stderr, ee.Message)
		}
		os.Exit(ee.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
