package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validNotebook = `{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[
  {"id":"c1","cell_type":"code","source":"print(1)","metadata":{},
   "outputs":[{"output_type":"stream","name":"stdout","text":["1\n"]}],"execution_count":1}]}`

const canonicalNotebook = `{
 "cells": [
  {
   "cell_type": "code",
   "execution_count": 1,
   "id": "c1",
   "metadata": {},
   "outputs": [
    {
     "name": "stdout",
     "output_type": "stream",
     "text": [
      "1\n"
     ]
    }
   ],
   "source": [
    "print(1)"
   ]
  }
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}
`

const duplicateIDNotebook = `{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[
  {"id":"a","cell_type":"raw","metadata":{},"source":""},
  {"id":"a","cell_type":"markdown","metadata":{"tags":["x","x"]},"source":""}]}`

const foreignNotebook = `{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[
  {"id":"m","cell_type":"markdown","metadata":{},"source":"x","outputs":[]}]}`

const missingIDNotebook = `{"nbformat":4,"nbformat_minor":4,"metadata":{},"cells":[
  {"cell_type":"markdown","metadata":{},"source":"x"}]}`

// writeFile writes content under dir, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and returns stdout.
// Diagnostics and logs go to a separate buffer.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}
