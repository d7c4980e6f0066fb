package parser

import "strings"

type section int

const (
	sectionNone section = iota
	sectionIgnored
	sectionContacts
	sectionChats
	sectionBrowser
	sectionShopping
	sectionLedger
	sectionPhotos
	sectionNotes
	sectionPlaylist
	sectionFootprints
	sectionForum
)

const sectionMarker = "==="

// Labels are matched by prefix so decorated headings like "相册（私密相册）" still resolve.
var sectionLabels = []struct {
	label string
	sec   section
}{
	{"通讯录", sectionContacts},
	{"微信聊天", sectionChats},
	{"浏览器历史", sectionBrowser},
	{"淘宝订单", sectionShopping},
	{"支付宝账单", sectionLedger},
	{"相册", sectionPhotos},
	{"备忘录", sectionNotes},
	{"音乐播放列表", sectionPlaylist},
	{"足迹", sectionFootprints},
	{"论坛", sectionForum},
}

// parseMarker returns the section a marker line switches to, or false if the line is not a marker.
func parseMarker(line string) (section, bool) {
	if !strings.HasPrefix(line, sectionMarker) {
		return sectionNone, false
	}
	label := strings.TrimSpace(strings.Trim(line, "="))
	for _, l := range sectionLabels {
		if strings.HasPrefix(label, l.label) {
			return l.sec, true
		}
	}
	return sectionIgnored, true
}
