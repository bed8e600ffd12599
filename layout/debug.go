package layout

import (
	"encoding/json"
	"os"
)

// DebugNode 是节点树的 JSON 友好表示。
type DebugNode struct {
	Type     string         `json:"type"`
	Width    Glue           `json:"width"`
	Height   Glue           `json:"height"`
	Depth    Glue           `json:"depth"`
	Shift    Scaled         `json:"shift,omitempty"`
	Glyph    string         `json:"glyph,omitempty"`
	Font     string         `json:"font,omitempty"`
	Kern     string         `json:"kern,omitempty"`
	Report   *PackReport    `json:"report,omitempty"`
	Children []DebugNode    `json:"children,omitempty"`
	Branches map[string]any `json:"branches,omitempty"`
	Payload  any            `json:"payload,omitempty"`
}

// Debug 将节点树转换为 DebugNode。
func Debug(n Node) DebugNode {
	out := DebugNode{
		Type:   n.Kind().String(),
		Width:  n.Width(),
		Height: n.Height(),
		Depth:  n.Depth(),
	}
	switch v := n.(type) {
	case *Char:
		out.Glyph = string(v.Glyph)
		if v.Font != nil {
			out.Font = v.Font.Name()
		}
	case *Kern:
		out.Kern = v.Subtype.String()
	case *HList:
		out.Shift = v.Shift
		if v.Target != nil {
			rep := v.Report
			out.Report = &rep
		}
		out.Children = debugChildren(v.Children)
	case *VList:
		out.Shift = v.Shift
		if v.Target != nil {
			rep := v.Report
			out.Report = &rep
		}
		out.Children = debugChildren(v.Children)
	case *Passthrough:
		out.Payload = v.Payload
	case *Discretionary:
		out.Branches = map[string]any{}
		for name, l := range map[string]*HList{"pre": v.Pre, "post": v.Post, "nobreak": v.NoBreak} {
			if l != nil {
				out.Branches[name] = Debug(l)
			}
		}
	}
	return out
}

func debugChildren(nodes []Node) []DebugNode {
	out := make([]DebugNode, 0, len(nodes))
	for _, c := range nodes {
		out = append(out, Debug(c))
	}
	return out
}

// WriteDebugJSON 将节点树输出为 JSON，便于调试或可视化。
func WriteDebugJSON(n Node, path string) error {
	if n == nil {
		return nil
	}
	data, err := json.MarshalIndent(Debug(n), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
