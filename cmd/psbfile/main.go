package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shiroemons/go-psbfile/internal/psbfile/app"
	"github.com/shiroemons/go-psbfile/internal/psbfile/config"
)

func main() {
	// コマンドライン引数の解析
	cfg := config.ParseFlags()

	// バージョン表示の処理
	config.HandleVersion(cfg.ShowVersion)

	// Ctrl+C で処理中のファイルの後に停止する
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// アプリケーションの実行
	application := app.New(cfg)
	if err := application.Run(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		os.Exit(1)
	}
}
