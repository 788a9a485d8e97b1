package banner

import (
	"strings"

	"github.com/fatih/color"
)

// Banner 是完整的autodoc标志
const Banner = `
             _            _
  __ _ _   _| |_ ___   __| | ___   ___
 / _' | | | | __/ _ \ / _' |/ _ \ / __|
| (_| | |_| | || (_) | (_| | (_) | (__
 \__,_|\__,_|\__\___/ \__,_|\___/ \___|  %s
                                  %s
`

// SmallBanner 是更小的标志
const SmallBanner = `
┌─┐┬ ┬┌┬┐┌─┐┌┬┐┌─┐┌─┐
├─┤│ │ │ │ │ │││ ││
┴ ┴└─┘ ┴ └─┘─┴┘└─┘└─┘  %s
                       %s
`

// MicroBanner 只有名称
const MicroBanner = `
[autodoc] %s - %s
`

// Print 打印标志
func Print(version, description string) {
	PrintWithSize(version, description, "small")
}

// PrintWithSize 打印指定大小的标志
// size可以是："micro", "small", "normal"
func PrintWithSize(version, description, size string) {
	var banner string

	switch strings.ToLower(size) {
	case "micro":
		banner = MicroBanner
	case "normal":
		banner = Banner
	default:
		banner = SmallBanner
	}

	color.Cyan(banner, version, description)
}
