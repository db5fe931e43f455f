package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sukalov/liveset/internal/logger"
	"github.com/sukalov/liveset/internal/lyrics"
	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
)

func main() {
	var (
		outputFile string
		format     string
		baseURL    string
		slides     bool
		timeout    time.Duration
	)

	flag.StringVar(&outputFile, "output", "", "Output file name (stdout when empty)")
	flag.StringVar(&format, "format", "text", "Output format: text or json")
	flag.StringVar(&baseURL, "api", liveset.DefaultBaseURL, "Set API base URL")
	flag.BoolVar(&slides, "slides", false, "Print projector slides instead of sections (text format)")
	flag.DurationVar(&timeout, "timeout", 90*time.Second, "Request timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <set number>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "Example: %s -format json 1234\n", os.Args[0])
		os.Exit(1)
	}

	if format != "text" && format != "json" {
		log.Fatalf("unknown format %q", format)
	}

	setNumber := args[0]
	parser := liveset.NewParser(liveset.NewClient(baseURL))
	service := lyrics.NewService(parser)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := service.FetchSet(ctx, setNumber)
	if err != nil {
		logger.Error(fmt.Sprintf("Error fetching set\nSet: %s\nError: %v", setNumber, err))
		log.Fatalf("Error fetching set: %v", err)
	}

	var output []byte
	if format == "json" {
		output, err = json.MarshalIndent(result.Songs, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding set: %v", err)
		}
		output = append(output, '\n')
	} else {
		output = []byte(renderText(service, result.Songs, slides))
	}

	if outputFile == "" {
		os.Stdout.Write(output)
		return
	}

	if err := os.WriteFile(outputFile, output, 0644); err != nil {
		logger.Error(fmt.Sprintf("Error saving set file\nFile: %s\nError: %v", outputFile, err))
		log.Fatalf("Error saving file: %v", err)
	}
	logger.Success(fmt.Sprintf("Set %s saved\nOutput: %s\nSongs: %d", setNumber, outputFile, len(result.Songs)))
}

func renderText(service *lyrics.Service, songs []liveset.Song, slides bool) string {
	var sb strings.Builder
	for i, song := range songs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "=== %d. %s", song.SongNumber, song.Title)
		if song.Author != "" {
			fmt.Fprintf(&sb, " (%s)", song.Author)
		}
		sb.WriteString(" ===\n")

		if slides {
			for j, slide := range service.Slides(song) {
				fmt.Fprintf(&sb, "\n-- slide %d: %s --\n%s\n", j+1, slide.Section, strings.Join(slide.Lines, "\n"))
			}
			continue
		}

		for _, section := range song.Sections {
			if section.Title != "" {
				fmt.Fprintf(&sb, "\n[%s]\n", section.Title)
			} else {
				sb.WriteString("\n")
			}
			sb.WriteString(section.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
