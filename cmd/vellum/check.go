// Copyright 2020 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vellum-lang/vellum/internal/config"
	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/pipeline"
)

func newCheckCmd() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "check <dir>",
		Short: "elaborate and type-check a module tree rooted at <dir>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "dump the node registry after a successful check")
	return cmd
}

func runCheck(cmd *cobra.Command, dir string, debug bool) error {
	cfg, err := config.Load(filepath.Join(dir, "vellum.yaml"))
	if err != nil {
		return err
	}

	tree := filetree.New()
	loader := newFSLoader(dir, tree)
	root, err := loader.loadRoot()
	if err != nil {
		return err
	}

	result := pipeline.Run(tree, loader, root, cfg)
	if len(result.Errors) > 0 {
		return result.Errors
	}

	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		fmt.Fprintln(out, w.String())
	}
	if debug {
		fmt.Fprint(out, result.Registry.Reg.Dump())
	}
	fmt.Fprintln(out, "ok")
	return nil
}
