package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
	"github.com/wordhop/wordhop/internal/embedding"
)

var embedWordsFile string

func init() {
	embedBuildCmd.Flags().StringVar(&embedWordsFile, "words", "", "Word list file (one word per line); defaults to the configured vocabulary_file")
	embedCmd.AddCommand(embedBuildCmd)
	embedCmd.AddCommand(embedCheckCmd)
	rootCmd.AddCommand(embedCmd)
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Build and inspect the word embedding index",
}

var embedBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed the vocabulary through Ollama",
	Long: `Embed every vocabulary word through Ollama and store the vectors in
.wordhop/vocab.gob. An existing index for the same model is used to resume:
already-embedded words are carried over without new requests.`,
	RunE: runEmbedBuild,
}

var embedCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check Ollama availability and index status",
	RunE:  runEmbedCheck,
}

// newProvider builds an Ollama provider from repository config, falling back
// to defaults for unset values.
func newProvider(cfg *config.Config) *embedding.OllamaProvider {
	var opts []embedding.OllamaOption
	if cfg.OllamaURL != "" {
		opts = append(opts, embedding.WithBaseURL(cfg.OllamaURL))
	}
	if cfg.EmbedModel != "" {
		opts = append(opts, embedding.WithModel(cfg.EmbedModel))
	}
	return embedding.NewOllamaProvider(opts...)
}

// readWordList reads a vocabulary file: one word per line, blank lines and
// #-comments skipped, everything lowercased.
func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" || strings.HasPrefix(w, "#") || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words, scanner.Err()
}

func runEmbedBuild(cmd *cobra.Command, args []string) error {
	root := requireRepo()
	ctx := cmd.Context()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	wordsPath := embedWordsFile
	if wordsPath == "" {
		if cfg.VocabularyFile == "" {
			exitWithError(ExitConfigError, "no word list: pass --words or set vocabulary_file")
		}
		wordsPath = filepath.Join(root, cfg.VocabularyFile)
	}

	words, err := readWordList(wordsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading word list: %v", err)
	}
	if len(words) == 0 {
		exitWithError(ExitDataError, "word list %s is empty", wordsPath)
	}

	provider := newProvider(cfg)
	if err := provider.IsAvailable(ctx); err != nil {
		exitWithError(ExitOllamaError, "%v", err)
	}
	hasModel, err := provider.HasModel(ctx)
	if err != nil {
		exitWithError(ExitOllamaError, "%v", err)
	}
	if !hasModel {
		exitWithError(ExitModelNotFound, "model %s not found in Ollama (try: ollama pull %s)",
			provider.ModelName(), provider.ModelName())
	}

	// Resume from a previous index when present.
	resume, err := embedding.LoadVocab(config.VocabPath(root))
	if err != nil && err != embedding.ErrVocabNotFound {
		fmt.Fprintf(os.Stderr, "warning: ignoring existing index: %v\n", err)
		resume = nil
	}

	progress := func(done, total int, word string) {
		if done%50 == 0 || done == total {
			fmt.Fprintf(os.Stderr, "embedded %d/%d words\n", done, total)
		}
	}

	idx, err := embedding.BuildVocab(ctx, provider, words, resume, progress)
	if err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}

	if err := idx.Save(config.VocabPath(root)); err != nil {
		exitWithError(ExitError, "saving index: %v", err)
	}

	resp := struct {
		Status     string `json:"status"`
		Model      string `json:"model"`
		Dimensions int    `json:"dimensions"`
		Words      int    `json:"words"`
	}{"built", idx.ModelName, idx.Dimensions, idx.WordCount}

	if humanOutput {
		fmt.Printf("Embedded %d words with %s (%d dimensions)\n", resp.Words, resp.Model, resp.Dimensions)
	} else {
		outputJSON(resp)
	}
	return nil
}

func runEmbedCheck(cmd *cobra.Command, args []string) error {
	root := requireRepo()
	ctx := cmd.Context()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	provider := newProvider(cfg)

	resp := struct {
		Ollama     string `json:"ollama"`
		Model      string `json:"model"`
		ModelFound bool   `json:"model_found"`
		IndexWords int    `json:"index_words"`
		IndexModel string `json:"index_model,omitempty"`
	}{Ollama: "ok", Model: provider.ModelName()}

	if err := provider.IsAvailable(ctx); err != nil {
		exitWithError(ExitOllamaError, "%v", err)
	}
	resp.ModelFound, err = provider.HasModel(ctx)
	if err != nil {
		exitWithError(ExitOllamaError, "%v", err)
	}

	if idx, err := embedding.LoadVocab(config.VocabPath(root)); err == nil {
		resp.IndexWords = idx.WordCount
		resp.IndexModel = idx.ModelName
	}

	if humanOutput {
		fmt.Printf("Ollama: ok\nModel %s found: %v\nIndexed words: %d\n",
			resp.Model, resp.ModelFound, resp.IndexWords)
	} else {
		outputJSON(resp)
	}
	return nil
}
