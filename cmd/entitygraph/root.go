/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/entitygraph"
	"github.com/suparena/entitygraph/registry"
	"github.com/suparena/entitygraph/schema"
)

func newRootCmd(out io.Writer) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:          "entitygraph",
		Short:        "Inspect entity schemas",
		SilenceUsage: true,
		Version:      entitygraph.Version,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log registry events to stderr")

	logger := func() (*zap.Logger, error) {
		if !debug {
			return zap.NewNop(), nil
		}
		return zap.NewDevelopment()
	}

	root.AddCommand(&cobra.Command{
		Use:   "check <schema.yaml>",
		Short: "Load a schema and resolve every key",
		Long: `Load a YAML schema, then resolve every key of every entity and print
its field names and typed defaults.

Exits non-zero on the first declaration or key that fails.

Examples:
  entitygraph check shop.yaml
  entitygraph check --debug shop.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return check(cmd.OutOrStdout(), registry.New(registry.WithLogger(log)), args[0])
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := entitygraph.GetVersionInfo()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "entitygraph version %s\n", info.Version)
			fmt.Fprintf(w, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(w, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(w, "Go version: %s\n", info.GoVersion)
		},
	})
	return root
}

func check(w io.Writer, reg *registry.Registry, path string) error {
	if err := schema.LoadFile(reg, path); err != nil {
		return err
	}
	for _, name := range reg.Entities() {
		e, err := reg.FindEntity(name)
		if err != nil {
			return err
		}
		if _, err := reg.FieldPrototype(e); err != nil {
			return err
		}
		fmt.Fprintln(w, name)
		for _, kn := range e.KeyNames() {
			k, err := reg.GetKeyInfo(e, kn)
			if err != nil {
				return err
			}
			p, err := reg.ResolveKeyFields(e, k)
			if err != nil {
				return err
			}
			unique := ""
			if k.Unique {
				unique = " unique"
			}
			fmt.Fprintf(w, "  %s%s:", kn, unique)
			for _, f := range p.Names {
				fmt.Fprintf(w, " %s=%v", f, p.Defaults[f])
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
