package main

import (
	"testing"

	"github.com/amonks/tuido/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestConfigScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/config",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
		Cmds: testsupport.Commands(),
	})
}
