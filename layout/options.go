package layout

// ContextFactory 为字符节点组合渲染属性（字体与颜色），由渲染后端实现。
// 布局只把它当作不透明的值生产者。
type ContextFactory interface {
	CharContext(font Face, size Scaled, glyph rune) RenderContext
}

// PlainContexts 是不依赖后端的工厂：字体名取自 Face，颜色为黑色。
type PlainContexts struct{}

func (PlainContexts) CharContext(font Face, size Scaled, _ rune) RenderContext {
	ctx := RenderContext{Size: size}
	if font != nil {
		ctx.Font = font.Name()
	}
	return ctx
}
