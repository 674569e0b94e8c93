package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/testweaver/sitegraph/internal/events"
	"github.com/testweaver/sitegraph/internal/logger"
	"github.com/testweaver/sitegraph/pkg/discovery"
	"github.com/testweaver/sitegraph/pkg/graph"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	verbose    bool

	// Discover flags
	appName     string
	maxDepth    int
	maxNodes    int
	maxElements int
	timeout     time.Duration
	slowMo      time.Duration
	outputDir   string
	archivePath string
	scopeHosts  []string
	screenshots bool

	// Auth flags
	email    string
	password string

	// Browser flags
	headed    bool
	userAgent string

	// Event streaming flags
	listenAddr string

	// Show flags
	graphFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitegraph",
		Short: "sitegraph - Site graph discovery for web applications",
		Long: `sitegraph explores a running web application through a headless browser
and records its UI states and transitions as a graph.

Pages are discovered breadth-first by following links and clicking
interactive elements; same-URL SPA states are identified by DOM
fingerprint and reached again through click replay.`,
		Version: version,
	}

	discoverCmd := &cobra.Command{
		Use:   "discover [entry-url...]",
		Short: "Discover the site graph of an application",
		Long:  "Explore an application from one or more entry URLs and persist the resulting graph.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDiscover,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Summarize a saved site graph",
		Long:  "Read a persisted graph and print its nodes and transitions.",
		RunE:  runShow,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	discoverCmd.Flags().StringVarP(&appName, "app", "a", "", "Application name used in output file names")
	discoverCmd.Flags().IntVarP(&maxDepth, "max-depth", "d", 4, "Maximum link-following depth")
	discoverCmd.Flags().IntVarP(&maxNodes, "max-nodes", "n", 50, "Maximum number of graph nodes")
	discoverCmd.Flags().IntVar(&maxElements, "max-elements", 30, "Maximum elements recorded per page")
	discoverCmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Wall-clock budget for the run")
	discoverCmd.Flags().DurationVar(&slowMo, "slow-mo", 0, "Pause between page actions")
	discoverCmd.Flags().StringVarP(&outputDir, "output", "o", "test-results", "Output directory")
	discoverCmd.Flags().StringVar(&archivePath, "archive", "", "Optional bbolt file for a graph archive")
	discoverCmd.Flags().StringArrayVar(&scopeHosts, "scope", nil, "Extra hosts treated as in scope")
	discoverCmd.Flags().BoolVar(&screenshots, "screenshots", true, "Capture a screenshot per node")
	discoverCmd.Flags().StringVarP(&email, "email", "u", "", "Login email")
	discoverCmd.Flags().StringVarP(&password, "password", "p", "", "Login password")
	discoverCmd.Flags().BoolVar(&headed, "headed", false, "Run the browser with a visible window")
	discoverCmd.Flags().StringVar(&userAgent, "user-agent", "", "Browser user agent override")
	discoverCmd.Flags().StringVar(&listenAddr, "listen", "", "Address for the WebSocket event stream (e.g. :8077)")

	showCmd.Flags().StringVarP(&graphFile, "file", "f", "", "Graph file to read")
	showCmd.Flags().StringVarP(&appName, "app", "a", "", "Application name to look up the latest graph")
	showCmd.Flags().StringVarP(&outputDir, "output", "o", "test-results", "Output directory the graph was saved under")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(showCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDiscover(cmd *cobra.Command, args []string) error {
	config := discovery.DefaultConfig()
	if configFile != "" {
		fileConfig, err := discovery.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		config = fileConfig
	}

	config.EntryPoints = append(config.EntryPoints, args...)
	if appName != "" {
		config.AppName = appName
	}
	if config.AppName == "" {
		config.AppName = graph.Slugify(args[0])
	}

	if cmd.Flags().Changed("max-depth") {
		config.MaxDepth = maxDepth
	}
	if cmd.Flags().Changed("max-nodes") {
		config.MaxNodes = maxNodes
	}
	if cmd.Flags().Changed("max-elements") {
		config.MaxElementsPerPage = maxElements
	}
	if cmd.Flags().Changed("timeout") {
		config.Timeout = timeout
	}
	if cmd.Flags().Changed("slow-mo") {
		config.SlowMo = slowMo
	}
	if cmd.Flags().Changed("output") {
		config.OutputDir = outputDir
	}
	if cmd.Flags().Changed("archive") {
		config.ArchivePath = archivePath
	}
	if cmd.Flags().Changed("screenshots") {
		config.Screenshots = screenshots
	}
	if cmd.Flags().Changed("headed") {
		config.Browser.Headless = !headed
	}
	if userAgent != "" {
		config.Browser.UserAgent = userAgent
	}
	config.ScopeWhitelist = append(config.ScopeWhitelist, scopeHosts...)
	config.Verbose = verbose

	level := logger.WarnLevel
	if verbose {
		level = logger.InfoLevel
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Component: "cli"})

	bus := events.NewBus()
	defer bus.Close()

	if listenAddr != "" {
		relay := events.NewRelay(bus)
		go relay.Run()
		defer relay.Close()

		server := &http.Server{Addr: listenAddr, Handler: relay}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Warn("event stream server stopped")
			}
		}()
		defer server.Close()

		fmt.Printf("Event stream listening on ws://%s\n", listenAddr)
	}

	opts := []discovery.Option{
		discovery.WithConfig(config),
		discovery.WithEventSink(bus),
		discovery.WithLogger(log),
	}
	if email != "" || password != "" {
		opts = append(opts, discovery.WithCredentials(email, password))
	}

	explorer, err := discovery.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create explorer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
		cancel()
	}()

	fmt.Printf("Exploring %s...\n", config.EntryPoints[0])

	report, err := explorer.Run(ctx)
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Discovery ended early: %v\n", err)
	}
	if report != nil {
		printReport(report)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	var (
		g   *graph.Graph
		err error
	)
	switch {
	case graphFile != "":
		g, err = graph.Load(graphFile)
	case appName != "":
		g, err = graph.LoadLatest(outputDir, appName)
	default:
		return fmt.Errorf("either --file or --app is required")
	}
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	fmt.Printf("App:        %s (%s)\n", g.AppName, g.AppType)
	fmt.Printf("Nodes:      %d\n", g.Metadata.TotalNodes)
	fmt.Printf("Edges:      %d\n", g.Metadata.TotalEdges)
	fmt.Printf("Elements:   %d\n", g.Metadata.TotalElements)
	fmt.Printf("Max depth:  %d\n", g.Metadata.MaxDepthReached)
	fmt.Printf("Duration:   %v\n", time.Duration(g.Metadata.DurationMs)*time.Millisecond)
	if g.LoginRequired {
		fmt.Println("Login:      required")
	}
	fmt.Println()

	nodes := make([]*graph.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Depth != nodes[j].Depth {
			return nodes[i].Depth < nodes[j].Depth
		}
		return nodes[i].NormalizedURL < nodes[j].NormalizedURL
	})

	for _, n := range nodes {
		marker := " "
		if n.IsEntryPoint {
			marker = "*"
		}
		kind := "page"
		if n.DOMFingerprint != "" {
			kind = "state"
		}
		fmt.Printf("%s d%d [%s] %s  %q (%d elements)\n",
			marker, n.Depth, kind, n.NormalizedURL, n.Title, len(n.Elements))
	}

	return nil
}

func printReport(report *discovery.Report) {
	fmt.Println()
	fmt.Println("Discovery Summary")
	fmt.Println("-----------------")
	fmt.Printf("Status:    %s\n", report.Status)
	fmt.Printf("Nodes:     %d\n", report.NodesDiscovered)
	fmt.Printf("Edges:     %d\n", report.EdgesDiscovered)
	fmt.Printf("Duration:  %v\n", (time.Duration(report.DurationMs) * time.Millisecond).Round(time.Second))
	if report.SavedTo != "" {
		fmt.Printf("Saved to:  %s\n", report.SavedTo)
	}

	if len(report.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(report.Errors))
		count := 10
		if len(report.Errors) < count {
			count = len(report.Errors)
		}
		for i := 0; i < count; i++ {
			e := report.Errors[i]
			fmt.Printf("  [%s] %s: %s\n", e.Stage, e.URL, e.Message)
		}
		if len(report.Errors) > 10 {
			fmt.Printf("  ... and %d more\n", len(report.Errors)-10)
		}
	}
	fmt.Println()
}
