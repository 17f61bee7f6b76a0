package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
)

// SearchConfig carries the retrieval policy knobs. Sub-query matches are
// noisier than main-query matches, so they require a higher similarity bar.
type SearchConfig struct {
	SimilarityThreshold float64
	SubQueryThreshold   float64
	VectorLimit         int
	LexicalLimit        int
	LexicalBaseline     float64
	CallTimeout         time.Duration
	RerankEnabled       bool
	MaxLimit            int
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		SimilarityThreshold: 0.35,
		SubQueryThreshold:   0.5,
		VectorLimit:         20,
		LexicalLimit:        10,
		LexicalBaseline:     0.55,
		CallTimeout:         8 * time.Second,
		RerankEnabled:       false,
		MaxLimit:            50,
	}
}

func (c SearchConfig) normalize() SearchConfig {
	out := c
	def := DefaultSearchConfig()
	if out.SimilarityThreshold <= 0 || out.SimilarityThreshold >= 1 {
		out.SimilarityThreshold = def.SimilarityThreshold
	}
	if out.SubQueryThreshold <= 0 || out.SubQueryThreshold >= 1 {
		out.SubQueryThreshold = def.SubQueryThreshold
	}
	if out.VectorLimit <= 0 {
		out.VectorLimit = def.VectorLimit
	}
	if out.LexicalLimit <= 0 {
		out.LexicalLimit = def.LexicalLimit
	}
	if out.LexicalBaseline <= 0 || out.LexicalBaseline >= 1 {
		out.LexicalBaseline = def.LexicalBaseline
	}
	if out.CallTimeout <= 0 {
		out.CallTimeout = def.CallTimeout
	}
	if out.MaxLimit <= 0 {
		out.MaxLimit = def.MaxLimit
	}
	return out
}

// SearchUseCase orchestrates one search request: analysis, concurrent
// retrieval fan-out, fusion, optional AI rerank, diversity-capped selection,
// and answer synthesis. Every collaborator call has its own timeout and
// failure boundary; a dead upstream degrades one signal, never the request.
type SearchUseCase struct {
	analyzer    *QueryAnalyzer
	embedder    ports.Embedder
	vector      ports.VectorSearcher
	metadata    ports.MetadataStore
	llm         ports.CompletionClient
	synthesizer *AnswerSynthesizer
	events      ports.EventPublisher
	cfg         SearchConfig
	fusion      FusionConfig
}

func NewSearchUseCase(
	analyzer *QueryAnalyzer,
	embedder ports.Embedder,
	vector ports.VectorSearcher,
	metadata ports.MetadataStore,
	llm ports.CompletionClient,
	synthesizer *AnswerSynthesizer,
	events ports.EventPublisher,
	cfg SearchConfig,
	fusion FusionConfig,
) *SearchUseCase {
	return &SearchUseCase{
		analyzer:    analyzer,
		embedder:    embedder,
		vector:      vector,
		metadata:    metadata,
		llm:         llm,
		synthesizer: synthesizer,
		events:      events,
		cfg:         cfg.normalize(),
		fusion:      fusion.normalize(),
	}
}

type signalResult struct {
	signal domain.Signal
	cands  []domain.Candidate
	err    error
}

func (uc *SearchUseCase) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", errors.New("query must not be empty"))
	}

	start := time.Now()
	filter := domain.SearchFilter{Category: strings.TrimSpace(req.Court)}

	analysisCtx, cancelAnalysis := context.WithTimeout(ctx, uc.cfg.CallTimeout)
	analysis := uc.analyzer.Analyze(analysisCtx, query)
	cancelAnalysis()

	results := uc.fanOutRetrieval(ctx, query, analysis, filter)

	inputs, diagnostics := collectSignals(results)
	fused := fuseCandidates(inputs, analysis.Keywords, uc.fusion)
	diagnostics.Merged = len(fused)

	if uc.rerankRequested(req) {
		rerankCtx, cancelRerank := context.WithTimeout(ctx, uc.cfg.CallTimeout)
		fused, diagnostics.Reranked = rerankCandidates(rerankCtx, uc.llm, query, fused, uc.fusion)
		cancelRerank()
	}

	final := applyDiversityCap(fused, uc.fusion.MaxPerCase, uc.resultLimit(req))

	synthCtx, cancelSynth := context.WithTimeout(ctx, uc.cfg.CallTimeout)
	answer := uc.synthesizer.Synthesize(synthCtx, query, &analysis, final)
	cancelSynth()

	response := &domain.SearchResponse{
		Query:          query,
		Analysis:       &analysis,
		Results:        final,
		Answer:         answer,
		ElapsedSeconds: time.Since(start).Seconds(),
		Diagnostics:    diagnostics,
	}
	uc.publishCompleted(ctx, response)
	return response, nil
}

// fanOutRetrieval launches every independent retrieval call concurrently and
// returns once all have settled. The fusion step is commutative, so no
// ordering guarantee is needed between the calls.
func (uc *SearchUseCase) fanOutRetrieval(
	ctx context.Context,
	query string,
	analysis domain.QueryAnalysis,
	filter domain.SearchFilter,
) []signalResult {
	var wg sync.WaitGroup
	resultCh := make(chan signalResult, 2+len(analysis.SubQueries)+len(analysis.Keywords))

	run := func(sig domain.Signal, fn func(context.Context) ([]domain.Candidate, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, uc.cfg.CallTimeout)
			defer cancel()
			cands, err := fn(callCtx)
			resultCh <- signalResult{signal: sig, cands: cands, err: err}
		}()
	}

	run(domain.SignalVectorMain, func(callCtx context.Context) ([]domain.Candidate, error) {
		return uc.vectorSearch(callCtx, query, uc.cfg.SimilarityThreshold, filter)
	})

	for i, sub := range analysis.SubQueries {
		if strings.EqualFold(strings.TrimSpace(sub), query) {
			continue
		}
		subQuery := sub
		run(domain.SignalSubQuery(i+1), func(callCtx context.Context) ([]domain.Candidate, error) {
			return uc.vectorSearch(callCtx, subQuery, uc.cfg.SubQueryThreshold, filter)
		})
	}

	for _, kw := range analysis.Keywords {
		keyword := kw
		run(domain.SignalLexical, func(callCtx context.Context) ([]domain.Candidate, error) {
			return uc.lexicalSearch(callCtx, keyword, filter)
		})
	}

	wg.Wait()
	close(resultCh)

	out := make([]signalResult, 0, cap(resultCh))
	for res := range resultCh {
		out = append(out, res)
	}
	return out
}

func (uc *SearchUseCase) vectorSearch(ctx context.Context, query string, threshold float64, filter domain.SearchFilter) ([]domain.Candidate, error) {
	vector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return uc.vector.Search(ctx, vector, threshold, uc.cfg.VectorLimit, filter)
}

func (uc *SearchUseCase) lexicalSearch(ctx context.Context, keyword string, filter domain.SearchFilter) ([]domain.Candidate, error) {
	cands, err := uc.metadata.SubstringSearch(ctx, keyword, uc.cfg.LexicalLimit, filter)
	if err != nil {
		return nil, err
	}
	// Lexical hits carry no similarity; they get the configured baseline.
	for i := range cands {
		cands[i].Score = uc.cfg.LexicalBaseline
	}
	return cands, nil
}

// collectSignals groups settled results per signal and records diagnostics.
// A failed call degrades its signal to an empty contribution.
func collectSignals(results []signalResult) ([]SignalCandidates, domain.Diagnostics) {
	grouped := make(map[domain.Signal][]domain.Candidate, len(results))
	outcomes := make(map[domain.Signal]domain.SignalOutcome, len(results))

	for _, res := range results {
		outcome := outcomes[res.signal]
		if res.err != nil {
			slog.Warn("retrieval_signal_failed", "signal", res.signal, "error", res.err)
			outcome.Failed = true
		} else {
			grouped[res.signal] = append(grouped[res.signal], res.cands...)
			outcome.Candidates += len(res.cands)
		}
		outcomes[res.signal] = outcome
	}

	inputs := make([]SignalCandidates, 0, len(grouped))
	for sig, cands := range grouped {
		inputs = append(inputs, SignalCandidates{Signal: sig, Candidates: cands})
	}
	return inputs, domain.Diagnostics{Signals: outcomes}
}

func (uc *SearchUseCase) rerankRequested(req domain.SearchRequest) bool {
	if req.Rerank != nil {
		return *req.Rerank
	}
	return uc.cfg.RerankEnabled
}

func (uc *SearchUseCase) resultLimit(req domain.SearchRequest) int {
	limit := req.Limit
	if limit <= 0 {
		return uc.fusion.TopK
	}
	if limit > uc.cfg.MaxLimit {
		return uc.cfg.MaxLimit
	}
	return limit
}

func (uc *SearchUseCase) publishCompleted(ctx context.Context, response *domain.SearchResponse) {
	if uc.events == nil {
		return
	}
	event := domain.SearchCompletedEvent{
		RequestID:      uuid.NewString(),
		QueryWords:     len(queryWords(response.Query)),
		Results:        len(response.Results),
		Reranked:       response.Diagnostics.Reranked,
		ElapsedSeconds: response.ElapsedSeconds,
		Signals:        response.Diagnostics.Signals,
	}
	if err := uc.events.PublishSearchCompleted(ctx, event); err != nil {
		slog.Warn("search_event_publish_failed", "error", err)
	}
}
