package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ironsheep/image-stats/internal/imaging"
	"github.com/ironsheep/image-stats/internal/source"
	"github.com/ironsheep/image-stats/internal/stats"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type inspectResult struct {
	Content string        `json:"content"`
	Format  string        `json:"format,omitempty"`
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
	Result  *stats.Result `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func InspectHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := cfg.StatsOptions()
	if method, _ := cmd.Flags().GetString("method"); method != "" {
		opts.Method = imaging.ParseMethod(strings.ToLower(method))
	}
	if maxDim, _ := cmd.Flags().GetInt("max-dim"); maxDim != 0 {
		if maxDim < 0 {
			return fmt.Errorf("--max-dim must be positive, got %d", maxDim)
		}
		opts.MaxDimension = maxDim
	}

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}

	results := make([]inspectResult, len(args))
	failed := 0
	for i, arg := range args {
		results[i] = inspectResult{Content: arg}

		d, err := loader.Load(cmd.Context(), inspectSource(arg))
		if err != nil {
			results[i].Error = err.Error()
			failed++
			continue
		}

		res := stats.Run(d.Image, d, opts)
		results[i].Format = d.Format
		results[i].Width = d.Image.Bounds().Dx()
		results[i].Height = d.Image.Bounds().Dy()
		results[i].Result = &res
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		writeSummaryTable(out, results)
		if showExif, _ := cmd.Flags().GetBool("exif"); showExif {
			for _, r := range results {
				if r.Result != nil && len(r.Result.ExifData) > 0 {
					fmt.Fprintf(out, "\n%s\n", r.Content)
					writeExifTable(out, r.Result)
				}
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be inspected", failed, len(args))
	}
	return nil
}

// inspectSource treats http(s) and az:// references as remote and anything
// else as a local path.
func inspectSource(arg string) source.Source {
	if src, err := source.Parse(arg); err == nil {
		return src
	}
	return source.FileSource{Path: arg}
}

func writeSummaryTable(w io.Writer, results []inspectResult) {
	var data [][]string
	for _, r := range results {
		if r.Result == nil {
			data = append(data, []string{r.Content, "-", "-", "-", "-", "-", "error: " + r.Error})
			continue
		}

		avg, dominant, method := "none", "none", "-"
		if c := r.Result.ColorData; c != nil {
			avg, dominant, method = c.AvgColor.Hex, c.DominantColor.Hex, string(c.AvgColor.Method)
		}
		data = append(data, []string{
			r.Content,
			r.Format,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			avg,
			dominant,
			method,
			fmt.Sprintf("%d", len(r.Result.ExifData)),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"IMAGE", "FORMAT", "SIZE", "AVERAGE", "DOMINANT", "METHOD", "EXIF TAGS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func writeExifTable(w io.Writer, res *stats.Result) {
	names := make([]string, 0, len(res.ExifData))
	for name := range res.ExifData {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"TAG", "VALUE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, name := range names {
		table.Append([]string{name, fmt.Sprint(res.ExifData[name])})
	}
	table.Render()
}
