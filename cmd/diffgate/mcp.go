package diffgate

import (
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/varalys/diffgate/internal/config"
	"github.com/varalys/diffgate/internal/engine"
	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/mcp"
)

func (a *app) mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	var path string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve diffgate tools over stdio for AI assistants",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := a.newMCPServer(path)
			if err != nil {
				return err
			}
			a.log.Info("mcp server listening on stdio")
			return mcp.ServeStdio(s)
		},
	}
	serve.Flags().StringVarP(&path, "path", "p", ".", "repository root the tools operate on")
	cmd.AddCommand(serve)
	return cmd
}

// newMCPServer carries the loaded config into every tool call; per-call
// arguments only override the gate policy.
func (a *app) newMCPServer(path string) (*server.MCPServer, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	policy, err := gate.ParsePolicy(pickString("", a.local.FailOn, a.global.FailOn))
	if err != nil {
		return nil, err
	}
	base := engine.Config{
		Root:            root,
		EnableRules:     pickString("", a.local.Enable, a.global.Enable),
		DisableRules:    pickString("", a.local.Disable, a.global.Disable),
		CustomRules:     config.CustomRules(a.global, a.local),
		Strict:          pickBool(false, a.local.Strict, a.global.Strict),
		ExcludeGlobs:    pickString("", a.local.Exclude, a.global.Exclude),
		DefaultExcludes: true,
		Policy:          policy,
	}
	return mcp.NewServer(version, base, a.log.With(zap.String("component", "mcp"))), nil
}
