package main

// Render the evaluation prompt for a local résumé and job description:
//   go run ./cmd/prompttest -resume cv.pdf -jd jd.txt
// Send it to the configured model and print the interpreted result:
//   go run ./cmd/prompttest -resume cv.pdf -jd jd.txt -call

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"internship-ats/internal/analyses"
	"internship-ats/internal/bootstrap"
	"internship-ats/internal/extract"
	"internship-ats/internal/llm"
	"internship-ats/internal/shared/config"
)

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume PDF")
	jdPath := flag.String("jd", "", "Path to job description text file")
	promptVersion := flag.String("prompt-version", cfg.PromptVersion, "Prompt template version")
	call := flag.Bool("call", false, "Send the prompt to the configured model")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (gemini or openai)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	outPath := flag.String("out", "", "Path to write output (optional)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if !strings.EqualFold(filepath.Ext(*resumePath), ".pdf") {
		exitErr(fmt.Sprintf("unsupported resume file type: %s", filepath.Ext(*resumePath)))
	}
	ctx := context.Background()

	f, err := os.Open(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("open resume: %v", err))
	}
	doc, err := extract.Text(ctx, f)
	_ = f.Close()
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}

	jobDescription := ""
	if strings.TrimSpace(*jdPath) != "" {
		jdBytes, err := os.ReadFile(*jdPath)
		if err != nil {
			exitErr(fmt.Sprintf("read job description: %v", err))
		}
		jobDescription = string(jdBytes)
	}

	var out []byte
	if !*call {
		tmpl, ok := llm.PromptTemplate(*promptVersion)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown prompt version %q, using %s\n", *promptVersion, llm.DefaultPromptVersion)
		}
		out = []byte(llm.BuildPrompt(tmpl, doc.Text, jobDescription))
	} else {
		cfg.LLMProvider = *provider
		cfg.LLMModel = *model
		client, err := bootstrap.BuildLLM(ctx, cfg)
		if err != nil {
			exitErr(err.Error())
		}
		svc := &analyses.Service{LLM: client, PromptVersion: *promptVersion}
		eval, err := svc.Evaluate(ctx, doc.Text, jobDescription)
		if err != nil {
			exitErr(fmt.Sprintf("evaluate: %v", err))
		}
		if out, err = prettyJSON(eval); err != nil {
			exitErr(fmt.Sprintf("format json: %v", err))
		}
		if eval.Failed() {
			fmt.Fprintln(os.Stderr, "model output was not valid JSON")
		}
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(out); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

func prettyJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
