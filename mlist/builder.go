package mlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ByLCY/papyrus-tex/dsl"
	"github.com/ByLCY/papyrus-tex/fonts"
	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/metrics"
)

// LetterFamily 是裸字符串中非数字字符所用的族；数字使用 0 族。
const LetterFamily = 1

const defaultFormulaGap = 12 * layout.Unity

// BuildOptions 控制描述文件的解释方式。
type BuildOptions struct {
	// BaseDir 用于解析相对路径的字体文件；为空时只允许 builtin: 字体与绝对路径。
	BaseDir string
	Logger  *zap.Logger
}

// Meta 是文档元数据与输出设置。
type Meta struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
	Color    layout.Color
	// Gap 是相邻公式之间的竖直间距。
	Gap layout.Scaled
}

// Formula 是一个待转换的公式。Width 非空时按该宽度打包。
type Formula struct {
	Style Style
	Width *layout.Scaled
	Noads []*Noad
}

// Document 是描述文件的解释结果：字体、族、参数与公式。
type Document struct {
	Meta     Meta
	Fonts    map[string]metrics.Font
	Sources  map[string][]byte
	Families Families
	Params   *Params
	Settings Settings
	Formulas []Formula

	logger *zap.Logger
}

// Build 根据描述文件的 AST 构造字体环境与 noad 树。
func Build(doc *dsl.Document, opts BuildOptions) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	meta, err := collectMeta(doc)
	if err != nil {
		return nil, err
	}
	out := &Document{
		Meta:     meta,
		Fonts:    map[string]metrics.Font{},
		Sources:  map[string][]byte{},
		Families: Families{},
		Settings: DefaultSettings(),
		logger:   logger,
	}

	if err := out.collectFonts(doc, opts.BaseDir); err != nil {
		return nil, err
	}
	if len(out.Families) == 0 {
		if err := out.useDefaultFonts(); err != nil {
			return nil, err
		}
	}
	out.Params = ParamsFor(out.Families)
	if err := out.collectParams(doc); err != nil {
		return nil, err
	}

	for _, section := range doc.Formulas() {
		f, err := out.buildFormula(section)
		if err != nil {
			return nil, fmt.Errorf("formula (%s): %w", section.Pos, err)
		}
		out.Formulas = append(out.Formulas, f)
	}
	if len(out.Formulas) == 0 {
		return nil, fmt.Errorf("文档中缺少 formula 段落")
	}
	return out, nil
}

// Context 为 style 风格的公式构造转换环境；factory 为 nil 时使用 PlainContexts。
func (d *Document) Context(style Style, factory layout.ContextFactory) *Context {
	ctx := NewContext(style, d.Families, d.Params)
	ctx.Settings = d.Settings
	ctx.Logger = d.logger
	if factory != nil {
		ctx.Factory = factory
	}
	return ctx
}

// Typeset 依次转换全部公式，并以 Meta.Gap 为间距纵向堆叠。
func (d *Document) Typeset(factory layout.ContextFactory) (*layout.VList, error) {
	page := layout.NewVList()
	for i, f := range d.Formulas {
		l, err := Convert(f.Noads, d.Context(f.Style, factory))
		if err != nil {
			return nil, fmt.Errorf("第 %d 个公式排版失败: %w", i+1, err)
		}
		if f.Width != nil {
			rep := l.Pack(f.Width)
			switch {
			case rep.Overfull():
				d.logger.Warn("overfull formula", zap.Int("index", i+1), zap.Stringer("excess", -rep.Residual))
			case rep.Underfull():
				d.logger.Warn("underfull formula", zap.Int("index", i+1), zap.Int("badness", rep.Badness))
			}
		}
		if i > 0 {
			page.Append(layout.NewVKern(d.Meta.Gap, layout.KernExplicit))
		}
		page.Append(l)
		d.logger.Debug("formula typeset",
			zap.Int("index", i+1),
			zap.Stringer("style", f.Style),
			zap.Stringer("width", l.Width().Natural),
			zap.Stringer("height", l.Height().Natural),
			zap.Stringer("depth", l.Depth().Natural),
		)
	}
	page.Pack(nil)
	return page, nil
}

func collectMeta(doc *dsl.Document) (Meta, error) {
	meta := Meta{Creator: "Papyrus", Gap: defaultFormulaGap}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			value := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = value.Text()
			case "author":
				meta.Author = value.Text()
			case "subject":
				meta.Subject = value.Text()
			case "creator":
				meta.Creator = value.Text()
			case "keywords":
				meta.Keywords = value.Strings()
			case "color":
				c, err := parseColor(value.Text())
				if err != nil {
					return meta, err
				}
				meta.Color = c
			case "gap":
				gap, err := layout.ParseScaled(value.Text())
				if err != nil {
					return meta, fmt.Errorf("meta gap: %w", err)
				}
				meta.Gap = gap
			}
		}
	}
	return meta, nil
}

// collectFonts 处理 font、family 与 settings 声明；params 依赖族，留到之后处理。
func (d *Document) collectFonts(doc *dsl.Document, baseDir string) error {
	for _, section := range doc.Sections {
		if section.Fonts == nil || section.Fonts.Block == nil {
			continue
		}
		for _, stmt := range section.Fonts.Block.Statements {
			cmd := stmt.Command
			if cmd == nil {
				continue
			}
			switch cmd.Name {
			case "font":
				font, src, err := parseFont(cmd, baseDir)
				if err != nil {
					return err
				}
				d.Fonts[font.Name()] = font
				if src != nil {
					d.Sources[font.Name()] = src
				}
			case "family":
				if err := d.parseFamily(cmd); err != nil {
					return err
				}
			case "settings":
				if err := d.parseSettings(cmd); err != nil {
					return err
				}
			case "params":
			default:
				d.logger.Warn("unknown fonts statement", zap.String("name", cmd.Name), zap.Stringer("pos", cmd.Pos))
			}
		}
	}
	return nil
}

func (d *Document) collectParams(doc *dsl.Document) error {
	for _, section := range doc.Sections {
		if section.Fonts == nil || section.Fonts.Block == nil {
			continue
		}
		for _, stmt := range section.Fonts.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "params" {
				continue
			}
			if err := d.parseParams(stmt.Command); err != nil {
				return err
			}
		}
	}
	return nil
}

// defaultFonts 描述没有 fonts 段落时使用的内置 Latin Modern 字体。
var defaultFonts = map[int]string{
	0:               "lmroman10-regular",
	LetterFamily:    "lmroman10-italic",
	SymbolFamily:    "lmmath",
	ExtensionFamily: "lmmath",
}

func (d *Document) useDefaultFonts() error {
	sizes := []struct {
		style Style
		pt    float64
	}{{Text, 10}, {Script, 7}, {ScriptScript, 5}}
	for fam, face := range defaultFonts {
		data, err := fonts.Load(face)
		if err != nil {
			return err
		}
		var ff FamilyFonts
		for _, s := range sizes {
			name := fmt.Sprintf("%s@%gpt", face, s.pt)
			font, ok := d.Fonts[name]
			if !ok {
				sf, err := metrics.ParseSFNT(name, data, layout.Pt(s.pt))
				if err != nil {
					return err
				}
				font = sf
				d.Fonts[name] = sf
				d.Sources[name] = data
			}
			switch s.style {
			case Text:
				ff.Text = font
			case Script:
				ff.Script = font
			default:
				ff.ScriptScript = font
			}
		}
		d.Families[fam] = ff
	}
	return nil
}

// parseFont 解析 `font <name> [size <len>] { src: "..."; size: <len> }` 或带 glyph/kern 的表格字体。
func parseFont(cmd *dsl.Command, baseDir string) (metrics.Font, []byte, error) {
	if len(cmd.Args) == 0 {
		return nil, nil, fmt.Errorf("font 声明缺少名称 (%s)", cmd.Pos)
	}
	name := cmd.Args[0].Value
	attrs := cmd.Options(1)
	if cmd.Block != nil {
		for _, st := range cmd.Block.Statements {
			if st.Assignment != nil {
				attrs[strings.ToLower(st.Assignment.Key)] = st.Assignment.Value.Text()
			}
		}
	}

	size := layout.Pt(10)
	if v := attrs["size"]; v != "" {
		s, err := layout.ParseScaled(v)
		if err != nil {
			return nil, nil, fmt.Errorf("字体 %s 的尺寸无效: %w", name, err)
		}
		size = s
	}

	if src := attrs["src"]; src != "" {
		data, err := loadFontBytes(src, baseDir)
		if err != nil {
			return nil, nil, fmt.Errorf("字体 %s: %w", name, err)
		}
		font, err := metrics.ParseSFNT(name, data, size)
		if err != nil {
			return nil, nil, err
		}
		return font, data, nil
	}

	font := metrics.NewTableFont(name, size)
	if cmd.Block == nil {
		return font, nil, nil
	}
	for _, st := range cmd.Block.Statements {
		if st.Command == nil {
			continue
		}
		var err error
		switch st.Command.Name {
		case "glyph":
			err = parseGlyph(font, st.Command)
		case "kern":
			err = parseKernPair(font, st.Command)
		default:
			err = fmt.Errorf("未知的字体语句 %s", st.Command.Name)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("字体 %s (%s): %w", name, st.Command.Pos, err)
		}
	}
	return font, nil, nil
}

// parseGlyph 解析 `glyph "x" width 5pt height 4pt depth 0pt italic 0.3pt next "y"`。
func parseGlyph(font *metrics.TableFont, cmd *dsl.Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("glyph 缺少字符")
	}
	r, err := singleRune(cmd.Args[0].Value)
	if err != nil {
		return err
	}
	var m metrics.GlyphMetrics
	attrs := cmd.Options(1)
	for key, dst := range map[string]*layout.Scaled{
		"width":  &m.Width,
		"height": &m.Height,
		"depth":  &m.Depth,
		"italic": &m.Italic,
	} {
		v, ok := attrs[key]
		if !ok {
			continue
		}
		if *dst, err = layout.ParseScaled(v); err != nil {
			return fmt.Errorf("glyph %q 的 %s 无效: %w", r, key, err)
		}
	}
	font.SetGlyph(r, m)
	if next, ok := attrs["next"]; ok {
		larger, err := singleRune(next)
		if err != nil {
			return err
		}
		font.SetSuccessor(r, larger)
	}
	return nil
}

// parseKernPair 解析 `kern "a" "b" 1.5pt`。
func parseKernPair(font *metrics.TableFont, cmd *dsl.Command) error {
	if len(cmd.Args) != 3 {
		return fmt.Errorf("kern 需要两个字符与一个长度")
	}
	left, err := singleRune(cmd.Args[0].Value)
	if err != nil {
		return err
	}
	right, err := singleRune(cmd.Args[1].Value)
	if err != nil {
		return err
	}
	amount, err := layout.ParseScaled(cmd.Args[2].Value)
	if err != nil {
		return err
	}
	font.SetKern(left, right, amount)
	return nil
}

func loadFontBytes(src, baseDir string) ([]byte, error) {
	if fonts.IsBuiltin(src) {
		return fonts.Load(src)
	}
	path := src
	if baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件失败: %w", err)
	}
	return data, nil
}

// parseFamily 解析 `family 0 text rm script rm7 scriptscript rm5`；缺省的尺寸沿用上一档。
func (d *Document) parseFamily(cmd *dsl.Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("family 缺少族号 (%s)", cmd.Pos)
	}
	fam, err := strconv.Atoi(cmd.Args[0].Value)
	if err != nil || fam < 0 {
		return fmt.Errorf("族号无效 %q (%s)", cmd.Args[0].Value, cmd.Pos)
	}
	attrs := cmd.Options(1)
	lookup := func(key string) (metrics.Font, error) {
		name, ok := attrs[key]
		if !ok {
			return nil, nil
		}
		font, ok := d.Fonts[name]
		if !ok {
			return nil, fmt.Errorf("族 %d 引用了未声明的字体 %s", fam, name)
		}
		return font, nil
	}
	var ff FamilyFonts
	if ff.Text, err = lookup("text"); err != nil {
		return err
	}
	if ff.Text == nil {
		return fmt.Errorf("族 %d 缺少 text 字体", fam)
	}
	if ff.Script, err = lookup("script"); err != nil {
		return err
	}
	if ff.Script == nil {
		ff.Script = ff.Text
	}
	if ff.ScriptScript, err = lookup("scriptscript"); err != nil {
		return err
	}
	if ff.ScriptScript == nil {
		ff.ScriptScript = ff.Script
	}
	d.Families[fam] = ff
	return nil
}

// parseParams 解析 `params <style> [family <n>] { name: <len> }`。
func (d *Document) parseParams(cmd *dsl.Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("params 缺少风格 (%s)", cmd.Pos)
	}
	style, err := ParseStyle(cmd.Args[0].Value)
	if err != nil {
		return err
	}
	family := -1
	if v, ok := cmd.Options(1)["family"]; ok {
		if family, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("params 的族号无效 %q", v)
		}
	}
	if cmd.Block == nil {
		return nil
	}
	for _, st := range cmd.Block.Statements {
		key, tokens := st.Fields()
		if key == "" {
			continue
		}
		p, ok := ParseParam(key)
		if !ok {
			return fmt.Errorf("未知的字体参数 %s", key)
		}
		if len(tokens) != 1 {
			return fmt.Errorf("参数 %s 需要一个长度", key)
		}
		v, err := layout.ParseScaled(tokens[0])
		if err != nil {
			return fmt.Errorf("参数 %s: %w", key, err)
		}
		if family < 0 {
			d.Params.SetDefault(style, p, v)
		} else {
			d.Params.Set(style, family, p, v)
		}
	}
	return nil
}

// parseSettings 解析 settings 段中的 skip 与定界符参数。
func (d *Document) parseSettings(cmd *dsl.Command) error {
	if cmd.Block == nil {
		return nil
	}
	s := &d.Settings
	for _, st := range cmd.Block.Statements {
		key, tokens := st.Fields()
		if key == "" {
			continue
		}
		if len(tokens) == 0 {
			return fmt.Errorf("设置项 %s 缺少取值", key)
		}
		var err error
		switch key {
		case "thin", "medium", "thick":
			var g layout.Glue
			if g, err = parseGlue(tokens); err == nil {
				switch key {
				case "thin":
					s.Thin = MuGlue(g)
				case "medium":
					s.Medium = MuGlue(g)
				default:
					s.Thick = MuGlue(g)
				}
			}
		case "null-delimiter-space":
			s.NullDelimiterSpace, err = layout.ParseScaled(tokens[0])
		case "script-space":
			s.ScriptSpace, err = layout.ParseScaled(tokens[0])
		case "delimiter-shortfall":
			s.DelimiterShortfall, err = layout.ParseScaled(tokens[0])
		case "delimiter-factor":
			s.DelimiterFactor, err = strconv.Atoi(tokens[0])
		default:
			err = fmt.Errorf("未知的设置项")
		}
		if err != nil {
			return fmt.Errorf("设置项 %s: %w", key, err)
		}
	}
	return nil
}

// parseGlue 解析 `<len> [plus <len>|<n> fil...] [minus ...]`。
func parseGlue(tokens []string) (layout.Glue, error) {
	if len(tokens) == 0 {
		return layout.Glue{}, fmt.Errorf("glue 缺少长度")
	}
	natural, err := layout.ParseScaled(tokens[0])
	if err != nil {
		return layout.Glue{}, err
	}
	g := layout.FixedGlue(natural)
	rest := tokens[1:]
	for len(rest) > 0 {
		kw := strings.ToLower(rest[0])
		if (kw != "plus" && kw != "minus") || len(rest) < 2 {
			return layout.Glue{}, fmt.Errorf("无法解析 glue: %s", strings.Join(tokens, " "))
		}
		e, n, err := parseElastic(rest[1:])
		if err != nil {
			return layout.Glue{}, err
		}
		if kw == "plus" {
			g.Stretch = e
		} else {
			g.Shrink = e
		}
		rest = rest[1+n:]
	}
	return g, nil
}

var fillOrders = map[string]layout.Order{"fil": layout.Fil, "fill": layout.Fill, "filll": layout.Filll}

func parseElastic(tokens []string) (layout.Elastic, int, error) {
	if len(tokens) >= 2 {
		if order, ok := fillOrders[strings.ToLower(tokens[1])]; ok {
			f, err := strconv.ParseFloat(tokens[0], 64)
			if err != nil {
				return layout.Elastic{}, 0, fmt.Errorf("无效的无穷伸缩量 %q", tokens[0])
			}
			return layout.Elastic{Amount: layout.Pt(f), Order: order}, 2, nil
		}
	}
	s, err := layout.ParseScaled(tokens[0])
	if err != nil {
		return layout.Elastic{}, 0, err
	}
	return layout.Elastic{Amount: s}, 1, nil
}

func (d *Document) buildFormula(section *dsl.FormulaSection) (Formula, error) {
	f := Formula{Style: Text}
	params := section.Params
	if len(params) > 0 && params[0].Type == "Ident" {
		if style, err := ParseStyle(params[0].Value); err == nil {
			f.Style = style
			params = params[1:]
		}
	}
	if v, ok := dsl.Pairs(params)["width"]; ok {
		w, err := layout.ParseScaled(v)
		if err != nil {
			return f, fmt.Errorf("公式宽度无效: %w", err)
		}
		f.Width = &w
	}
	noads, err := d.buildNoads(section.Block.Statements)
	if err != nil {
		return f, err
	}
	f.Noads = noads
	return f, nil
}

// delimGroup 是一个尚未闭合的 left...right 组。
type delimGroup struct {
	open  *Noad
	items []*Noad
}

// buildNoads 把语句序列转换为 noad 序列；left/middle/right 组合成嵌套的定界符 noad。
func (d *Document) buildNoads(stmts []*dsl.Statement) ([]*Noad, error) {
	var (
		top   []*Noad
		stack []*delimGroup
	)
	emit := func(n *Noad) {
		if len(stack) > 0 {
			g := stack[len(stack)-1]
			g.items = append(g.items, n)
			return
		}
		top = append(top, n)
	}

	for _, st := range stmts {
		if st.Text != nil {
			for _, r := range string(st.Text.Value) {
				fam := LetterFamily
				if unicode.IsDigit(r) {
					fam = 0
				}
				emit(NewChar(Ord, fam, r))
			}
			continue
		}
		cmd := st.Command
		if cmd == nil {
			continue
		}
		switch cmd.Name {
		case "left":
			spec, err := parseDelimSpec(cmd.Args)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", cmd.Where(), err)
			}
			stack = append(stack, &delimGroup{open: NewDelimiter(Left, spec, nil, nil)})
		case "middle", "right":
			if len(stack) == 0 {
				return nil, fmt.Errorf("%s: 缺少匹配的 left", cmd.Where())
			}
			spec, err := parseDelimSpec(cmd.Args)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", cmd.Where(), err)
			}
			g := stack[len(stack)-1]
			g.open.Nucleus.(*Delimiter).Post = collapse(g.items)
			if cmd.Name == "middle" {
				g.open = NewDelimiter(Middle, spec, g.open, nil)
				g.items = nil
				continue
			}
			stack = stack[:len(stack)-1]
			n := NewDelimiter(Right, spec, g.open, nil)
			if err := d.attachScripts(n, cmd.Block, false); err != nil {
				return nil, err
			}
			emit(n)
		default:
			n, err := d.buildNoad(cmd)
			if err != nil {
				return nil, err
			}
			if n != nil {
				emit(n)
			}
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("left 缺少匹配的 right")
	}
	return top, nil
}

// buildNoad 解析单个 noad 命令；未知命令记录警告并忽略。
func (d *Document) buildNoad(cmd *dsl.Command) (*Noad, error) {
	if class, ok := ParseClass(cmd.Name); ok && class != None {
		return d.buildCharNoad(cmd, class)
	}
	switch cmd.Name {
	case "glue":
		g, err := parseGlue(cmd.Values())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Where(), err)
		}
		return NewGlue(MuGlue(g), false), nil
	case "nonscript":
		return NewGlue(MuGlue{}, true), nil
	case "kern":
		if len(cmd.Args) != 1 {
			return nil, fmt.Errorf("%s: kern 需要一个长度", cmd.Where())
		}
		l, err := layout.ParseRawLength(cmd.Args[0].Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Where(), err)
		}
		if l.Unit == layout.UnitMU {
			return nil, fmt.Errorf("%s: kern 不支持 %s，请改用 glue", cmd.Where(), l)
		}
		return NewRaw(None, layout.NewKern(l.Scaled(), layout.KernExplicit)), nil
	case "special":
		if len(cmd.Args) == 0 {
			return nil, fmt.Errorf("%s: special 需要一个负载", cmd.Where())
		}
		return NewRaw(None, layout.NewPassthrough(strings.Join(cmd.Values(), " "))), nil
	case "rule":
		attrs := cmd.Options(0)
		var dims [3]layout.Scaled
		for i, key := range []string{"width", "height", "depth"} {
			if v, ok := attrs[key]; ok {
				s, err := layout.ParseScaled(v)
				if err != nil {
					return nil, fmt.Errorf("%s: rule %s: %w", cmd.Where(), key, err)
				}
				dims[i] = s
			}
		}
		return NewRaw(Ord, layout.NewRule(dims[0], dims[1], dims[2])), nil
	case "list":
		class := Ord
		if len(cmd.Args) > 0 {
			c, ok := ParseClass(cmd.Args[0].Value)
			if !ok {
				return nil, fmt.Errorf("%s: 未知的类别 %s", cmd.Where(), cmd.Args[0].Value)
			}
			class = c
		}
		body, err := d.bodyNoads(cmd)
		if err != nil {
			return nil, err
		}
		n := &Noad{Nucleus: &List{Noads: body}, Class: class}
		return n, d.attachScripts(n, cmd.Block, true)
	case "underline", "vcenter":
		body, err := d.bodyNoads(cmd)
		if err != nil {
			return nil, err
		}
		n := &Noad{Class: Ord}
		if cmd.Name == "underline" {
			n.Nucleus = &Underline{Nucleus: collapse(body)}
		} else {
			n.Nucleus = &VCenter{Nucleus: collapse(body)}
		}
		return n, d.attachScripts(n, cmd.Block, true)
	case "choice":
		return d.buildChoice(cmd)
	case "sup", "sub":
		return nil, fmt.Errorf("%s: 必须写在 noad 内部", cmd.Where())
	default:
		d.logger.Warn("unknown formula command", zap.String("name", cmd.Name), zap.Stringer("pos", cmd.Pos))
		return nil, nil
	}
}

// buildCharNoad 解析 `ord 1 "x" { sup {...} sub {...} }`。
func (d *Document) buildCharNoad(cmd *dsl.Command, class Class) (*Noad, error) {
	if len(cmd.Args) != 2 {
		return nil, fmt.Errorf("%s: 需要族号与字符", cmd.Where())
	}
	fam, err := strconv.Atoi(cmd.Args[0].Value)
	if err != nil {
		return nil, fmt.Errorf("%s: 族号无效 %q", cmd.Where(), cmd.Args[0].Value)
	}
	r, err := singleRune(cmd.Args[1].Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Where(), err)
	}
	n := NewChar(class, fam, r)
	return n, d.attachScripts(n, cmd.Block, false)
}

// buildChoice 解析 `choice { display {...} text {...} script {...} scriptscript {...} }`。
func (d *Document) buildChoice(cmd *dsl.Command) (*Noad, error) {
	c := &Choice{}
	if cmd.Block == nil {
		return &Noad{Nucleus: c}, nil
	}
	for _, st := range cmd.Block.Statements {
		if st.Command == nil {
			continue
		}
		style, err := ParseStyle(st.Command.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: choice 只接受 display/text/script/scriptscript", st.Command.Where())
		}
		var body []*Noad
		if st.Command.Block != nil {
			if body, err = d.buildNoads(st.Command.Block.Statements); err != nil {
				return nil, err
			}
		}
		alt := collapse(body)
		switch style {
		case Display:
			c.Display = alt
		case Text:
			c.Text = alt
		case Script:
			c.Script = alt
		default:
			c.ScriptScript = alt
		}
	}
	return &Noad{Nucleus: c}, nil
}

// bodyNoads 返回命令体中除 sup/sub 以外的 noad。
func (d *Document) bodyNoads(cmd *dsl.Command) ([]*Noad, error) {
	if cmd.Block == nil {
		return nil, nil
	}
	var stmts []*dsl.Statement
	for _, st := range cmd.Block.Statements {
		if st.Command != nil && (st.Command.Name == "sup" || st.Command.Name == "sub") {
			continue
		}
		stmts = append(stmts, st)
	}
	return d.buildNoads(stmts)
}

// attachScripts 把命令体中的 sup/sub 挂到 n 上；allowBody 为 false 时不允许其他语句。
func (d *Document) attachScripts(n *Noad, block *dsl.Block, allowBody bool) error {
	if block == nil {
		return nil
	}
	for _, st := range block.Statements {
		if st.Command == nil || (st.Command.Name != "sup" && st.Command.Name != "sub") {
			if !allowBody && (st.Command != nil || st.Text != nil) {
				return fmt.Errorf("noad 体中只允许 sup 与 sub")
			}
			continue
		}
		var body []*Noad
		if st.Command.Block != nil {
			var err error
			if body, err = d.buildNoads(st.Command.Block.Statements); err != nil {
				return err
			}
		}
		if st.Command.Name == "sup" {
			n.Sup = collapse(body)
		} else {
			n.Sub = collapse(body)
		}
	}
	return nil
}

// parseDelimSpec 解析 `null` 或 `<fam> "c" [<fam> "c"]`。
func parseDelimSpec(args []*dsl.Lexeme) (DelimSpec, error) {
	var spec DelimSpec
	if len(args) == 0 || (len(args) == 1 && args[0].Value == "null") {
		return spec, nil
	}
	if len(args) != 2 && len(args) != 4 {
		return spec, fmt.Errorf("定界符需要 null 或 族号/字符 对")
	}
	parse := func(famArg, glyphArg *dsl.Lexeme) (int, rune, error) {
		fam, err := strconv.Atoi(famArg.Value)
		if err != nil {
			return 0, 0, fmt.Errorf("族号无效 %q", famArg.Value)
		}
		r, err := singleRune(glyphArg.Value)
		return fam, r, err
	}
	var err error
	if spec.SmallFamily, spec.Small, err = parse(args[0], args[1]); err != nil {
		return spec, err
	}
	if len(args) == 4 {
		if spec.LargeFamily, spec.Large, err = parse(args[2], args[3]); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// collapse 把多个 noad 包成子公式，单个 noad 原样返回。
func collapse(noads []*Noad) *Noad {
	switch len(noads) {
	case 0:
		return nil
	case 1:
		return noads[0]
	default:
		return NewList(noads...)
	}
}

func singleRune(v string) (rune, error) {
	if utf8.RuneCountInString(v) != 1 {
		return 0, fmt.Errorf("需要单个字符，实际为 %q", v)
	}
	r, _ := utf8.DecodeRuneInString(v)
	return r, nil
}

// parseColor 解析 #RGB 或 #RRGGBB。
func parseColor(value string) (layout.Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return layout.Color{}, fmt.Errorf("无效的颜色 %q", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("无效的颜色 %q: %w", value, err)
	}
	return layout.Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
