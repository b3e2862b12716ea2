// Command pngloss lossily pre-compresses PNG (and other decodable raster)
// files so that a subsequent DEFLATE pass produces smaller output, while
// staying within a bounded per-channel quality envelope.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/foobaz/pngloss/internal/config"
	"github.com/foobaz/pngloss/internal/pnglog"
	"github.com/foobaz/pngloss/lossypng"
)

func main() {
	var convertToRGBA, convertToGrayscale, verbose bool
	var strength int
	var bleedDivider int
	var extension string
	var configPath string

	flag.BoolVar(&convertToRGBA, "c", false, "convert image to 32-bit color")
	flag.BoolVar(&convertToGrayscale, "g", false, "convert image to grayscale")
	flag.IntVar(&strength, "s", -1, "quantization strength 0..255, zero is lossless (default from config)")
	flag.IntVar(&bleedDivider, "b", -1, "error-diffusion bleed divider >=1, higher is weaker dithering (default from config)")
	flag.StringVar(&extension, "e", "", "filename extension of output files (default from config)")
	flag.BoolVar(&verbose, "v", false, "verbose logging: debug diagnostics and each image's per-row filter ids")
	flag.StringVar(&configPath, "config", "", "path to config.yml, or \"disable\" to bypass it")
	flag.Parse()

	conf, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pngloss: config error: %v\n", err)
		os.Exit(1)
	}
	if strength >= 0 {
		conf.Strength = uint8(strength)
	}
	if bleedDivider >= 1 {
		conf.BleedDivider = int16(bleedDivider)
	}
	if extension != "" {
		conf.OutputExtension = extension
	}
	if verbose {
		conf.Verbose = true
	}

	if err := pnglog.Init(conf.Verbose, false); err != nil {
		fmt.Fprintf(os.Stderr, "pngloss: logger init: %v\n", err)
		os.Exit(1)
	}
	defer pnglog.Sync()

	colorConversion := lossypng.NoConversion
	if convertToRGBA && !convertToGrayscale {
		colorConversion = lossypng.RGBAConversion
	} else if convertToGrayscale && !convertToRGBA {
		colorConversion = lossypng.GrayscaleConversion
	}

	allPaths := flag.Args()
	pathCount := len(allPaths)
	workers := runtime.NumCPU()
	if workers > pathCount {
		workers = pathCount
	}
	if workers < 1 {
		workers = 1
	}

	pathChan := make(chan string)
	var waiter sync.WaitGroup
	waiter.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer waiter.Done()
			for p := range pathChan {
				if err := optimizePath(p, colorConversion, conf); err != nil {
					pnglog.Debug.Printf("%s: %v", p, err)
					fmt.Fprintf(os.Stderr, "pngloss: %s: %v\n", p, err)
				}
			}
		}()
	}
	for _, p := range allPaths {
		pathChan <- p
	}
	close(pathChan)
	waiter.Wait()
}

func optimizePath(inPath string, colorConversion lossypng.ColorConversion, conf *config.Configuration) error {
	inFile, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "opening input")
	}
	defer inFile.Close()

	inInfo, statErr := inFile.Stat()

	decoded, _, err := image.Decode(inFile)
	if err != nil {
		return errors.Wrap(err, "decoding image")
	}

	var rowFilters []byte
	if bounds := decoded.Bounds(); conf.Verbose {
		rowFilters = make([]byte, bounds.Dy())
	}

	optimized, err := lossypng.Compress(decoded, colorConversion, conf.Strength, conf.BleedDivider, rowFilters, pnglog.Stats)
	if err != nil {
		return errors.Wrap(err, "optimizing image")
	}

	outPath := pathWithSuffix(inPath, conf.OutputExtension)
	outFile, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	defer outFile.Close()

	if err := png.Encode(outFile, optimized); err != nil {
		return errors.Wrap(err, "encoding output")
	}

	outInfo, outStatErr := outFile.Stat()
	logCompressionSummary(inPath, outPath, inInfo, statErr, outInfo, outStatErr)
	if conf.Verbose {
		pnglog.Debug.Printf("%s: row filters %s", inPath, describeRowFilters(rowFilters))
	}
	return nil
}

func logCompressionSummary(inPath, outPath string, inInfo os.FileInfo, inStatErr error, outInfo os.FileInfo, outStatErr error) {
	var inSize, outSize int64
	inSizeDesc, outSizeDesc, percentage := "???B", "???B", "???%"
	if inStatErr == nil {
		inSize = inInfo.Size()
		inSizeDesc = sizeDesc(inSize)
	}
	if outStatErr == nil {
		outSize = outInfo.Size()
		outSizeDesc = sizeDesc(outSize)
	}
	if inStatErr == nil && outStatErr == nil && inSize > 0 {
		percentage = fmt.Sprintf("%d%%", (outSize*100+inSize/2)/inSize)
	}
	pnglog.Info.Printf(
		"compressed %s (%s) to %s (%s, %s)",
		path.Base(inPath), inSizeDesc, path.Base(outPath), outSizeDesc, percentage,
	)
}

func describeRowFilters(rowFilters []byte) string {
	if len(rowFilters) == 0 {
		return "(not tracked)"
	}
	names := make([]string, len(rowFilters))
	for i, f := range rowFilters {
		names[i] = strconv.Itoa(int(f))
	}
	return strings.Join(names, ",")
}

func pathWithSuffix(filePath, suffix string) string {
	extension := path.Ext(filePath)
	insertion := len(filePath)
	if extension != "" {
		insertion = strings.LastIndex(filePath, extension)
	}
	return filePath[:insertion] + suffix
}

func sizeDesc(size int64) string {
	suffixes := []string{"B", "kB", "MB", "GB", "TB"}
	var i int
	for i = 0; i+1 < len(suffixes); i++ {
		if size < 10000 {
			break
		}
		size = (size + 500) / 1000
	}
	return fmt.Sprintf("%d%v", size, suffixes[i])
}
