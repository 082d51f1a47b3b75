package fonts

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-fonts/latin-modern/lmmath"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// 内置字体名
const (
	Math         = "lmmath"
	RomanRegular = "lmroman10-regular"
	RomanItalic  = "lmroman10-italic"
	RomanBold    = "lmroman10-bold"
)

var builtin = map[string][]byte{
	Math:         lmmath.TTF,
	RomanRegular: lmroman10regular.TTF,
	RomanItalic:  lmroman10italic.TTF,
	RomanBold:    lmroman10bold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:lmmath" 或直接 "lmmath"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(name, "embed:"))
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %s（可选：%s）", clean, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回全部内置字体名，按字典序。
func Names() []string { return slices.Sorted(maps.Keys(builtin)) }
