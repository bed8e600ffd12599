package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/papyrus-tex/dsl"
	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/mlist"
	canvasrenderer "github.com/ByLCY/papyrus-tex/renderer/canvas"
)

// options 是命令行参数。
type options struct {
	input  string
	output string
	debug  string
	style  string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "examples/demo.papyrus", "公式描述文件路径")
	flag.StringVar(&opts.output, "out", "output/demo.pdf", "PDF 输出路径")
	flag.StringVar(&opts.debug, "debug", "", "盒子树调试 JSON 输出路径")
	flag.StringVar(&opts.style, "style", "", "覆盖全部公式的起始风格（display/text/script/scriptscript）")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(opts, logger); err != nil {
		logger.Sugar().Fatalf("生成 PDF 失败: %v", err)
	}
	logger.Info("已生成 PDF", zap.String("path", opts.output))
}

// run 串联解析、noad 构造、公式排版与渲染。
func run(opts options, logger *zap.Logger) error {
	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("无法打开描述文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析描述文件失败: %w", err)
	}

	baseDir := filepath.Dir(opts.input)
	built, err := mlist.Build(doc, mlist.BuildOptions{BaseDir: baseDir, Logger: logger})
	if err != nil {
		return fmt.Errorf("构造公式失败: %w", err)
	}
	if opts.style != "" {
		style, err := mlist.ParseStyle(opts.style)
		if err != nil {
			return err
		}
		for i := range built.Formulas {
			built.Formulas[i].Style = style
		}
	}

	resources := make(map[string]canvasrenderer.Resource, len(built.Sources))
	for name, data := range built.Sources {
		resources[name] = canvasrenderer.Resource{Bytes: data}
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir,
		Fonts:   resources,
		Ink:     built.Meta.Color,
		Logger:  logger,
		Info: canvasrenderer.Info{
			Title:    built.Meta.Title,
			Subject:  built.Meta.Subject,
			Keywords: built.Meta.Keywords,
			Author:   built.Meta.Author,
			Creator:  built.Meta.Creator,
		},
	})

	page, err := built.Typeset(r)
	if err != nil {
		return fmt.Errorf("公式排版失败: %w", err)
	}

	if opts.debug != "" {
		if err := writeDebug(page, opts.debug); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(page)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(box layout.Node, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(box, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
