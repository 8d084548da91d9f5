// intervue はAI模擬面接サービスのバックエンドAPIサーバー。
//
// サブコマンド:
//
//	serve             APIサーバーを起動する（デフォルト）
//	worker            クリーンアップワーカーを起動する
//	migrate           データベースマイグレーションを実行する
//	backfill-attempts 過去の注文へ受験回数上限を一括適用する
//	healthcheck       ヘルスチェックを実行する
package main

import (
	"log/slog"
	"os"

	"github.com/hitoshi/intervue/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
