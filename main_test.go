package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestRunDemo(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		input:  filepath.Join("examples", "demo.papyrus"),
		output: filepath.Join(dir, "out", "demo.pdf"),
		debug:  filepath.Join(dir, "debug", "demo.json"),
	}
	if err := run(opts, zap.NewNop()); err != nil {
		t.Fatalf("运行失败: %v", err)
	}
	pdf, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatalf("读取输出失败: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
	raw, err := os.ReadFile(opts.debug)
	if err != nil {
		t.Fatalf("读取调试输出失败: %v", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		t.Fatalf("调试输出不是合法 JSON: %v", err)
	}
	if tree["type"] != "vlist" {
		t.Fatalf("根节点应为 vlist，实际 %v", tree["type"])
	}
}

func TestRunRejectsUnknownStyle(t *testing.T) {
	opts := options{
		input:  filepath.Join("examples", "demo.papyrus"),
		output: filepath.Join(t.TempDir(), "demo.pdf"),
		style:  "huge",
	}
	if err := run(opts, zap.NewNop()); err == nil {
		t.Fatalf("未知风格应报错")
	}
}

func TestRunMissingInput(t *testing.T) {
	opts := options{input: filepath.Join(t.TempDir(), "nope.papyrus"), output: filepath.Join(t.TempDir(), "x.pdf")}
	if err := run(opts, zap.NewNop()); err == nil {
		t.Fatalf("缺少输入文件应报错")
	}
}
