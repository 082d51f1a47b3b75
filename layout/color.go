package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// namedColors 是 \color{name} 可用的颜色名，取自 xcolor 的基础色板。
var namedColors = map[string]Color{
	"black":     {0, 0, 0},
	"white":     {255, 255, 255},
	"red":       {255, 0, 0},
	"green":     {0, 255, 0},
	"blue":      {0, 0, 255},
	"cyan":      {0, 255, 255},
	"magenta":   {255, 0, 255},
	"yellow":    {255, 255, 0},
	"gray":      {128, 128, 128},
	"grey":      {128, 128, 128},
	"darkgray":  {64, 64, 64},
	"lightgray": {191, 191, 191},
	"brown":     {191, 128, 64},
	"lime":      {191, 255, 0},
	"olive":     {128, 128, 0},
	"orange":    {255, 128, 0},
	"pink":      {255, 191, 191},
	"purple":    {191, 0, 64},
	"teal":      {0, 128, 128},
	"violet":    {128, 0, 128},
}

// DefaultTextColor 是未指定颜色时的墨色。
var DefaultTextColor = Color{R: 30, G: 30, B: 30}

// ParseColor 解析颜色名或 #rgb / #rrggbb / #rrggbbaa 形式的十六进制颜色（忽略透明度）。
func ParseColor(value string) (Color, error) {
	value = strings.TrimSpace(value)
	if c, ok := namedColors[strings.ToLower(value)]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(value, "#")
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
	}
	switch len(hex) {
	case 3:
		r := strings.Repeat(string(hex[0]), 2)
		g := strings.Repeat(string(hex[1]), 2)
		b := strings.Repeat(string(hex[2]), 2)
		return Color{
			R: mustHex(r),
			G: mustHex(g),
			B: mustHex(b),
		}, nil
	case 6, 8:
		return Color{
			R: mustHex(hex[0:2]),
			G: mustHex(hex[2:4]),
			B: mustHex(hex[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

// Hex 返回 #rrggbb 形式。
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}
