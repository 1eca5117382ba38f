package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Hunk 一段差异片段
type Hunk struct {
	Op   string `json:"op"`   // equal / insert / delete
	Text string `json:"text"` // 片段文本
}

// Stats 差异统计
type Stats struct {
	Inserted int `json:"inserted"` // 新增字符数
	Deleted  int `json:"deleted"`  // 删除字符数
}

// Compare computes the hunks transforming old into new, with a
// semantic cleanup pass so hunks align to word boundaries.
// Compare 计算 old 到 new 的差异片段，语义清理后片段按词边界对齐
func Compare(oldText, newText string) ([]Hunk, Stats) {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	hunks := make([]Hunk, 0, len(diffs))
	var stats Stats
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.Inserted += len([]rune(d.Text))
			hunks = append(hunks, Hunk{Op: "insert", Text: d.Text})
		case diffmatchpatch.DiffDelete:
			stats.Deleted += len([]rune(d.Text))
			hunks = append(hunks, Hunk{Op: "delete", Text: d.Text})
		default:
			hunks = append(hunks, Hunk{Op: "equal", Text: d.Text})
		}
	}

	return hunks, stats
}

// PrettyText renders a human readable inline diff of old vs new.
// PrettyText 渲染可读的内联差异文本
func PrettyText(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}
