package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Detection pipeline
		"Traced %d boundaries":                             "%d 個の輪郭を検出しました",
		"%d candidate regions passed filtering":            "%d 個の候補領域がフィルタを通過しました",
		"Region at (%.0f, %.0f) size %.0fx%.0f angle %.2f": "領域 (%.0f, %.0f) サイズ %.0fx%.0f 角度 %.2f",
		"No photo regions found, using grid split":         "写真領域が見つからないため、4分割を使用します",
		"No region could be extracted, using grid split":   "どの領域も切り出せないため、4分割を使用します",
		"Skipped slot %d: %v":                              "スロット %d をスキップしました: %v",
		"Extracted %d photos, skipped %d":                  "%d 枚の写真を切り出しました (スキップ %d)",

		// CLI
		"Processing %s":                  "%s を処理中",
		"Page %s: %dx%d":                 "ページ %s: %dx%d",
		"Found %d photos in %s":          "%[2]s で %[1]d 枚の写真を検出しました",
		"Grid fallback used for %s":      "%s は4分割で処理しました",
		"Saved %s":                       "%s を保存しました",
		"Wrote debug image %s":           "デバッグ画像 %s を書き出しました",
		"Wrote result %s":                "結果 %s を書き出しました",
		"Failed to process %s: %v":       "%s の処理に失敗しました: %v",
		"Wrote synthetic page %s":        "合成ページ %s を書き出しました",
		"Config written to %s":           "設定を %s に書き出しました",
		"Processed %d files, %d failed":  "%d ファイルを処理しました (失敗 %d)",
		"Interrupted, stopping after %s": "中断されました。%s の後に停止します",
		"%d of %d pages failed":          "%[2]d ページ中 %[1]d ページが失敗しました",
	})
}
