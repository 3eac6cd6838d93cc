// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are never counted.
var skipDirs = map[string]bool{
	".git":      true,
	"_examples": true,
	"magefiles": true,
	"vendor":    true,
	binaryDir:   true,
}

// Stats prints Go lines per package directory, split into production and
// test code, followed by the word count of the Markdown docs.
func Stats() error {
	type count struct {
		Prod int `json:"prod"`
		Test int `json:"test"`
	}
	pkgs := map[string]*count{}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		n := bytes.Count(data, []byte("\n"))

		dir := filepath.Dir(path)
		c := pkgs[dir]
		if c == nil {
			c = &count{}
			pkgs[dir] = c
		}
		if strings.HasSuffix(path, "_test.go") {
			c.Test += n
		} else {
			c.Prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(pkgs))
	for d := range pkgs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var total count
	for _, d := range dirs {
		c := pkgs[d]
		total.Prod += c.Prod
		total.Test += c.Test
		fmt.Printf("%-28s %6d prod %6d test\n", d, c.Prod, c.Test)
	}

	docs, err := filepath.Glob("*.md")
	if err != nil {
		return err
	}
	words := 0
	for _, p := range docs {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		words += len(strings.Fields(string(data)))
	}

	line, err := json.Marshal(map[string]int{
		"go_loc_prod": total.Prod,
		"go_loc_test": total.Test,
		"doc_words":   words,
	})
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}
