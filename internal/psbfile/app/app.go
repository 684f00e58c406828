// Package app はアプリケーションのメインロジックを実装します
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shiroemons/go-psbfile/internal/psbfile/config"
	"github.com/shiroemons/go-psbfile/internal/psbfile/dump"
	apperrors "github.com/shiroemons/go-psbfile/internal/psbfile/errors"
	"github.com/shiroemons/go-psbfile/internal/psbfile/fileutil"
	"github.com/shiroemons/go-psbfile/internal/psbfile/interfaces"
	"github.com/shiroemons/go-psbfile/pkg/psb"
	"github.com/shiroemons/go-psbfile/pkg/shell"
)

// App はアプリケーションのメインロジックを管理します
type App struct {
	config *config.Config
	logger *config.DebugLogger
	fs     interfaces.FileSystem
	loader interfaces.Loader
	stdout io.Writer
	stderr io.Writer
}

// Options はAppの設定オプション
type Options struct {
	FileSystem interfaces.FileSystem
	Loader     interfaces.Loader
	Stdout     io.Writer
	Stderr     io.Writer
}

// New は新しいAppを作成します
func New(cfg *config.Config) *App {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) *App {
	// デフォルトのファイルシステムを設定
	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// デバッグ出力はレポートと混ざらないよう stderr に書く
	logger := config.NewDebugLogger(cfg.DebugMode, stderr)

	return &App{
		config: cfg,
		logger: logger,
		fs:     fs,
		loader: opts.Loader,
		stdout: stdout,
		stderr: stderr,
	}
}

// psbLoader は psb.Load を使う既定のLoader
type psbLoader struct {
	opts []psb.Option
}

// Load はバッファを解析します
func (l *psbLoader) Load(buf []byte) (*psb.File, error) {
	return psb.Load(buf, l.opts...)
}

// report は1ファイル分の処理結果
type report struct {
	path      string
	shell     shell.Kind
	file      *psb.File
	resources []psb.ResourceMetadata
	extracted int
	treePath  string
	err       error
}

// Run はアプリケーションを実行します
func (a *App) Run(ctx context.Context) error {
	if len(a.config.Files) == 0 {
		return apperrors.ErrNoInput
	}

	if a.loader == nil {
		enc, ok := psb.ParseEncoding(a.config.Encoding)
		if !ok {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidEncoding, a.config.Encoding)
		}
		a.loader = &psbLoader{opts: []psb.Option{psb.WithEncoding(enc)}}
	}

	reports := a.processAll(ctx, a.config.Files)

	failed := 0
	for _, r := range reports {
		if r.err != nil {
			failed++
			fmt.Fprintf(a.stderr, "エラー: %v\n", r.err)
			continue
		}
		a.printReport(r)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d/%d 件", apperrors.ErrFilesFailed, failed, len(reports))
	}
	return nil
}

// processAll はファイルをワーカーで並列に処理し、入力順の結果を返します
func (a *App) processAll(ctx context.Context, files []string) []report {
	numWorkers := a.config.Workers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	numWorkers = min(numWorkers, len(files))

	reports := make([]report, len(files))
	jobs := make(chan int, numWorkers*2)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// キャンセルはファイルの間でのみ確認する
				if err := ctx.Err(); err != nil {
					reports[i] = report{path: files[i], err: apperrors.NewFileError("処理", files[i], err)}
					continue
				}
				reports[i] = a.processFile(files[i])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return reports
}

// processFile は1つのファイルを読み込み、指定された出力を行います
func (a *App) processFile(filename string) report {
	r := report{path: filename}
	a.logger.Printf("%s を読み込みます...\n", filename)

	if !a.fs.FileExists(filename) {
		r.err = apperrors.NewFileError("読み込み", filename, apperrors.ErrFileNotFound)
		return r
	}
	buf, err := a.fs.ReadFile(filename)
	if err != nil {
		r.err = apperrors.NewFileError("読み込み", filename, err)
		return r
	}

	buf, r.shell, err = shell.Unwrap(buf)
	if err != nil {
		r.err = apperrors.NewFileError("展開", filename, err)
		return r
	}
	if r.shell != shell.KindNone {
		a.logger.Printf("%s: %s シェルを展開しました (%d バイト)\n", filename, r.shell, len(buf))
	}

	r.file, err = a.loader.Load(buf)
	if err != nil {
		r.err = apperrors.NewFileError("解析", filename, err)
		return r
	}
	r.resources = r.file.Resources(!a.config.NoDedup)
	a.logger.Printf("%s: %s, リソース %d 件\n", filename, r.file.Type(), len(r.resources))

	if a.config.Tree {
		r.treePath = filepath.Join(a.config.OutputDir, fileutil.GenerateTreeFilename(filename))
		if err := a.writeTree(r.file, r.treePath); err != nil {
			r.err = apperrors.NewFileError("ツリー出力", filename, err)
			return r
		}
	}

	if a.config.Extract {
		n, err := a.extract(filename, r.resources)
		r.extracted = n
		if err != nil {
			r.err = apperrors.NewFileError("抽出", filename, err)
			return r
		}
	}
	return r
}

func (a *App) writeTree(f *psb.File, outPath string) error {
	data, err := dump.JSON(f.Root())
	if err != nil {
		return err
	}
	if a.config.DryRun {
		a.logger.Printf("[dry-run] %s (%d バイト)\n", outPath, len(data))
		return nil
	}
	return fileutil.WriteFile(a.fs, outPath, data)
}

// extract はリソースのペイロードを出力ディレクトリに書き込みます
func (a *App) extract(filename string, resources []psb.ResourceMetadata) (int, error) {
	written := 0
	for _, m := range resources {
		info := m.Info()
		outPath := fileutil.ResourcePath(a.config.OutputDir, filename, info.Part, OutputName(m))
		if err := a.write(outPath, info.Data()); err != nil {
			return written, err
		}
		written++

		if img, ok := psb.AsImage(m); ok && img.Palette != nil {
			if err := a.write(outPath+".pal", img.PaletteData()); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (a *App) write(outPath string, data []byte) error {
	if a.config.DryRun {
		a.logger.Printf("[dry-run] %s (%d バイト)\n", outPath, len(data))
		return nil
	}
	a.logger.Printf("%s (%d バイト)\n", outPath, len(data))
	return fileutil.WriteFile(a.fs, outPath, data)
}

// OutputName はリソースの出力ファイル名を返します
//
// 拡張子の無い画像はペイロードから形式が分かればその拡張子を、そうでなければ .bin を付けます。
func OutputName(m psb.ResourceMetadata) string {
	name := m.Info().Name
	if path.Ext(name) != "" {
		return name
	}
	if img, ok := psb.AsImage(m); ok {
		if _, format, err := img.DecodeConfig(); err == nil {
			return name + "." + format
		}
	}
	return name + ".bin"
}

// printReport はファイルの概要 (とリソース一覧) を表示します
func (a *App) printReport(r report) {
	h := r.file.Header()
	line := fmt.Sprintf("%s: %s v%d spec=%s resources=%d", r.path, r.file.Type(), h.Version, r.file.Spec(), len(r.resources))
	if r.shell != shell.KindNone {
		line += " shell=" + r.shell.String()
	}
	if a.config.Extract {
		line += fmt.Sprintf(" extracted=%d", r.extracted)
	}
	fmt.Fprintln(a.stdout, line)

	if r.treePath != "" {
		fmt.Fprintf(a.stdout, "  tree: %s\n", r.treePath)
	}

	if !a.config.List {
		return
	}
	for _, m := range r.resources {
		fmt.Fprintf(a.stdout, "  %s\n", describe(m))
	}
}

// describe はリソース1件の説明を返します
func describe(m psb.ResourceMetadata) string {
	info := m.Info()
	var b strings.Builder
	fmt.Fprintf(&b, "%-32s %8d %s", info.FullName(), len(info.Data()), info.Key())

	img, ok := psb.AsImage(m)
	if !ok {
		b.WriteString(" binary")
		return b.String()
	}
	w, h := img.Size()
	fmt.Fprintf(&b, " image %dx%d", w, h)
	if pf := img.PixelFormat(); pf != psb.PixelFormatNone {
		fmt.Fprintf(&b, " %s", pf)
	}
	if img.Compress != psb.CompressNone {
		fmt.Fprintf(&b, " compress=%s", img.Compress)
	}
	if idx, ok := img.TextureIndex(); ok {
		fmt.Fprintf(&b, " index=%d", idx)
	}
	if img.Palette != nil {
		fmt.Fprintf(&b, " pal=%s", img.PalettePixelFormat())
	}
	return b.String()
}
