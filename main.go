package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/espin086/AppGenie/config"
	"github.com/espin086/AppGenie/generator"
	"github.com/espin086/AppGenie/logging"
	"github.com/espin086/AppGenie/server"
	"github.com/espin086/AppGenie/toolkit"
	"github.com/espin086/AppGenie/toolkit/bigquery"
	"github.com/espin086/AppGenie/toolkit/csvkit"
	"github.com/espin086/AppGenie/toolkit/dataframe"
	"github.com/espin086/AppGenie/toolkit/dedup"
	"github.com/espin086/AppGenie/toolkit/snowflake"
)

func main() {
	configPath := flag.String("config", "", "path to config.json (optional; env vars work too)")
	serve := flag.Bool("serve", false, "start the web UI")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config)")
	describe := flag.String("describe", "", "app description for one-shot CLI generation")
	describeFile := flag.String("describe-file", "", "file holding the app description")
	out := flag.String("out", "appgenie.zip", "output archive path in CLI mode")
	optimize := flag.Bool("optimize", false, "run the prompt optimizer pass before generating")
	mock := flag.Bool("mock", false, "use the mock completion client (no API calls)")
	profileCSV := flag.String("profile", "", "profile the columns of a CSV file and exit")
	dedupeCSV := flag.String("dedupe", "", "report duplicate clusters in a CSV file and exit")
	dedupeFields := flag.String("fields", "", "comma-separated fields compared by --dedupe")
	bqQuery := flag.String("bq-query", "", "run a BigQuery query using the configured project and exit")
	sfQuery := flag.String("sf-query", "", "run a Snowflake query using the configured account and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	// Data-utility modes mirror the bundled toolkit from the command line.
	switch {
	case *profileCSV != "":
		err = runProfile(*profileCSV)
	case *dedupeCSV != "":
		err = runDedupe(*dedupeCSV, *dedupeFields)
	case *bqQuery != "":
		err = runBigQuery(cfg, *bqQuery)
	case *sfQuery != "":
		err = runSnowflake(cfg, *sfQuery)
	default:
		err = errNoUtilityMode
	}
	if err == nil {
		return
	}
	if err != errNoUtilityMode {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	agent, err := buildAgent(cfg, *mock, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serve {
		srv, err := server.New(agent, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		log.Info("starting AppGenie web UI", zap.String("addr", listen))
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	description := *describe
	if *describeFile != "" {
		data, err := os.ReadFile(*describeFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		description = string(data)
	}
	if strings.TrimSpace(description) == "" {
		fmt.Fprintln(os.Stderr, "either --serve or a description via --describe/--describe-file is required")
		os.Exit(1)
	}

	if err := generateOnce(agent, description, *optimize, *out, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(*out)
}

// errNoUtilityMode signals that no data-utility flag was given and the normal
// generate/serve flow should run.
var errNoUtilityMode = fmt.Errorf("no utility mode")

func runProfile(path string) error {
	df, err := csvkit.New(path).Read()
	if err != nil {
		return err
	}
	for _, p := range dataframe.Profile(df) {
		fmt.Printf("%-20s %-8s count=%d missing=%d distinct=%d mean=%.3f std=%.3f min=%.3f max=%.3f\n",
			p.Name, p.Type, p.Count, p.Missing, p.Distinct, p.Mean, p.StdDev, p.Min, p.Max)
	}
	return nil
}

func runDedupe(path, fields string) error {
	if fields == "" {
		return fmt.Errorf("--dedupe requires --fields")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := dedup.ReadRecords(f)
	if err != nil {
		return err
	}
	clusters, err := dedup.FindClusters(records, strings.Split(fields, ","))
	if err != nil {
		return err
	}
	fmt.Printf("%d duplicate cluster(s)\n", len(clusters))
	for i, c := range clusters {
		fmt.Printf("cluster %d: %d records (key %q)\n", i+1, len(c.Records), c.Key)
	}
	return nil
}

func runBigQuery(cfg config.Config, query string) error {
	if cfg.BQ == nil {
		return fmt.Errorf("bigquery is not configured")
	}
	ctx := context.Background()
	h, err := bigquery.New(ctx, cfg.BQ.ProjectID, cfg.BQ.CredentialsFile)
	if err != nil {
		return err
	}
	defer h.Close()

	rows, err := h.Query(ctx, query)
	if err != nil {
		return err
	}
	return printRows(len(rows), func(i int) any { return rows[i] })
}

func runSnowflake(cfg config.Config, query string) error {
	if cfg.SF == nil {
		return fmt.Errorf("snowflake is not configured")
	}
	ctx := context.Background()
	r, err := snowflake.Connect(ctx, snowflake.Params{
		Account:   cfg.SF.Account,
		User:      cfg.SF.User,
		Password:  os.Getenv(cfg.SF.PasswordEnv),
		Database:  cfg.SF.Database,
		Schema:    cfg.SF.Schema,
		Warehouse: cfg.SF.Warehouse,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	rows, err := r.Query(ctx, query)
	if err != nil {
		return err
	}
	return printRows(len(rows), func(i int) any { return rows[i] })
}

func printRows(n int, row func(int) any) error {
	for i := 0; i < n; i++ {
		data, err := json.Marshal(row(i))
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	fmt.Printf("%d row(s)\n", n)
	return nil
}

func buildAgent(cfg config.Config, mock bool, log *zap.Logger) (*generator.Agent, error) {
	modules := make([]generator.ModuleFile, 0)
	for _, f := range toolkit.Modules() {
		modules = append(modules, generator.ModuleFile{Name: f.Name, Content: f.Content})
	}

	var llm generator.LLMClient
	if mock {
		llm = generator.MockLLM{}
	} else {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		switch cfg.LLM.Provider {
		case "openai":
			client, err := generator.NewOpenAILLM(generator.LLMSettings{
				Provider: cfg.LLM.Provider,
				Model:    cfg.LLM.Model,
				APIKey:   cfg.LLM.APIKey,
				BaseURL:  cfg.LLM.BaseURL,
			})
			if err != nil {
				return nil, err
			}
			llm = client
		case "deepseek":
			// DeepSeek speaks the OpenAI protocol behind a base_url.
			if cfg.LLM.BaseURL == "" {
				return nil, fmt.Errorf("llm provider deepseek requires base_url")
			}
			client, err := generator.NewOpenAILLM(generator.LLMSettings{
				Provider: cfg.LLM.Provider,
				Model:    cfg.LLM.Model,
				APIKey:   cfg.LLM.APIKey,
				BaseURL:  cfg.LLM.BaseURL,
			})
			if err != nil {
				return nil, err
			}
			llm = client
		default:
			return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
		}
	}

	return generator.NewAgent(llm, cfg.LLM.Model, modules, log)
}

func generateOnce(agent *generator.Agent, description string, optimize bool, out string, log *zap.Logger) error {
	req := generator.Request{Description: description, Optimize: optimize}
	draft, err := agent.Generate(context.Background(), req, nil, "")
	if err != nil {
		return err
	}

	archive, err := toolkit.BuildArchive(toolkit.ArchiveParams{
		Title:    draft.Title,
		Summary:  draft.Summary,
		Code:     draft.Code,
		Response: draft.Markdown,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, archive, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Info("archive written",
		zap.String("path", out),
		zap.String("title", draft.Title),
		zap.Int("bytes", len(archive)))
	return nil
}
