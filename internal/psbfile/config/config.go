// Package config はpsbfileコマンドの設定管理を行います
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
)

const Version = "0.1.0"

// Config はアプリケーションの設定を保持します
type Config struct {
	Files       []string
	List        bool
	Extract     bool
	Tree        bool
	OutputDir   string
	Workers     int
	NoDedup     bool
	Encoding    string
	DebugMode   bool
	DryRun      bool
	ShowVersion bool
}

// DefaultWorkers はデフォルトの並列数
func DefaultWorkers() int {
	return min(runtime.NumCPU(), 8)
}

// ParseFlags はコマンドライン引数を解析して設定を返します
func ParseFlags() *Config {
	config := &Config{}

	// カスタムUsage関数を設定（ダブルハイフン表示）
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s: [options] <file.psb|file.pimg>...\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "  --list")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tlist embedded resources")
		fmt.Fprintln(flag.CommandLine.Output(), "  -l\tlist embedded resources (shorthand)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --extract")
		fmt.Fprintln(flag.CommandLine.Output(), "    \textract embedded resources")
		fmt.Fprintln(flag.CommandLine.Output(), "  -x\textract embedded resources (shorthand)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --tree")
		fmt.Fprintln(flag.CommandLine.Output(), "    \twrite the value tree as JSON")
		fmt.Fprintln(flag.CommandLine.Output(), "  -o string")
		fmt.Fprintln(flag.CommandLine.Output(), "    \toutput directory for the generated files (default \".\")")
		fmt.Fprintln(flag.CommandLine.Output(), "  -j int")
		fmt.Fprintf(flag.CommandLine.Output(), "    \tnumber of files processed in parallel (default %d)\n", DefaultWorkers())
		fmt.Fprintln(flag.CommandLine.Output(), "  --no-dedup")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tkeep resources that share the same chunk")
		fmt.Fprintln(flag.CommandLine.Output(), "  --encoding string")
		fmt.Fprintln(flag.CommandLine.Output(), "    \ttext encoding of names and strings: auto, utf8, sjis (default \"auto\")")
		fmt.Fprintln(flag.CommandLine.Output(), "  --debug")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tenable debug output")
		fmt.Fprintln(flag.CommandLine.Output(), "  -d\tenable debug output (shorthand)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --dry-run")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tperform a dry run without writing output files")
		fmt.Fprintln(flag.CommandLine.Output(), "  -n\tperform a dry run without writing output files (shorthand)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --version")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tshow version information")
		fmt.Fprintln(flag.CommandLine.Output(), "  -v\tshow version information (shorthand)")
	}

	// 動作モード
	flag.BoolVar(&config.List, "list", false, "list embedded resources")
	flag.BoolVar(&config.List, "l", false, "list embedded resources (shorthand)")
	flag.BoolVar(&config.Extract, "extract", false, "extract embedded resources")
	flag.BoolVar(&config.Extract, "x", false, "extract embedded resources (shorthand)")
	flag.BoolVar(&config.Tree, "tree", false, "write the value tree as JSON")

	// 出力ディレクトリ
	flag.StringVar(&config.OutputDir, "o", ".", "output directory for the generated files")

	// 並列数
	flag.IntVar(&config.Workers, "j", DefaultWorkers(), "number of files processed in parallel")

	// 解析オプション
	flag.BoolVar(&config.NoDedup, "no-dedup", false, "keep resources that share the same chunk")
	flag.StringVar(&config.Encoding, "encoding", "auto", "text encoding of names and strings: auto, utf8, sjis")

	// デバッグモード
	flag.BoolVar(&config.DebugMode, "debug", false, "enable debug output")
	flag.BoolVar(&config.DebugMode, "d", false, "enable debug output (shorthand)")

	// ドライランモード
	flag.BoolVar(&config.DryRun, "dry-run", false, "perform a dry run without writing output files")
	flag.BoolVar(&config.DryRun, "n", false, "perform a dry run without writing output files (shorthand)")

	// バージョン表示
	flag.BoolVar(&config.ShowVersion, "version", false, "show version information")
	flag.BoolVar(&config.ShowVersion, "v", false, "show version information (shorthand)")

	flag.Parse()

	config.Files = flag.Args()

	return config
}

// HandleVersion はバージョン表示を処理します
func HandleVersion(showVersion bool) {
	if showVersion {
		fmt.Printf("psbfile version %s\n", Version)
		os.Exit(0)
	}
}

// DebugLogger はデバッグ出力を管理します
type DebugLogger struct {
	enabled bool
	w       io.Writer
}

// NewDebugLogger は w に書き込む新しいDebugLoggerを作成します
func NewDebugLogger(enabled bool, w io.Writer) *DebugLogger {
	return &DebugLogger{enabled: enabled, w: w}
}

// Printf はデバッグモードが有効な場合のみメッセージを表示します
func (d *DebugLogger) Printf(format string, a ...any) {
	if d.enabled {
		fmt.Fprintf(d.w, format, a...)
	}
}
