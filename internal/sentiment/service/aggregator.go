package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"crypto-pulse/internal/entity"
	"crypto-pulse/internal/registry"
	"crypto-pulse/internal/sentiment/dto"
	"crypto-pulse/internal/sentiment/repository"
	"crypto-pulse/pkg/logger"
)

// bucketWindow is the aggregation window size.
const bucketWindow = 5 * time.Minute

// DefaultWeights are the per-question aggregation weights, keyed by
// question code.
var DefaultWeights = map[string]float64{
	"1": 0.15,
	"2": 0.10,
	"3": 0.20,
	"4": 0.20,
	"5": 0.10,
	"6": 0.10,
	"7": 0.10,
	"8": 0.05,
}

// CalculateFinalSentiment renormalizes the weights over the questions that
// actually contributed scores and returns the weighted average of their
// per-question means.
func CalculateFinalSentiment(weights map[string]float64, questionScores map[string][]float64) float64 {
	totalWeight := 0.0
	for code, scores := range questionScores {
		if len(scores) == 0 {
			continue
		}
		if w, ok := weights[code]; ok {
			totalWeight += w
		}
	}
	if totalWeight == 0 {
		return 0
	}

	final := 0.0
	for code, scores := range questionScores {
		if len(scores) == 0 {
			continue
		}
		w, ok := weights[code]
		if !ok {
			continue
		}

		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		avg := sum / float64(len(scores))

		final += (w / totalWeight) * avg
	}
	return final
}

// AggregatorService builds windowed sentiment aggregates from scored
// raw messages.
type AggregatorService interface {
	// Aggregate computes five-minute buckets over [start, end], persists
	// every bucket and returns them. Buckets without fresh messages carry
	// the last known score per coin forward, backfilled from the database.
	Aggregate(ctx context.Context, start, end time.Time) ([]dto.BucketEntry, error)
	// TrailingSentiment averages the last 24h of scores per coin over the
	// three trailing five-minute buckets.
	TrailingSentiment(ctx context.Context) ([]dto.TrailingBucket, error)
	// MinuteBuckets averages the last 24h of scores per coin grouped by
	// UTC minute, oldest first.
	MinuteBuckets(ctx context.Context) ([]dto.MinuteBucket, error)
}

// NewAggregatorService creates a new aggregator. Nil or empty weights fall
// back to the compiled-in defaults.
func NewAggregatorService(
	reg *registry.Registry,
	weights map[string]float64,
	rawMessageRepo repository.RawMessageRepository,
	aggregatedRepo repository.AggregatedSentimentRepository,
	log *logger.Logger,
) AggregatorService {
	if len(weights) == 0 {
		weights = DefaultWeights
	}
	return &aggregatorService{
		registry:       reg,
		weights:        weights,
		rawMessageRepo: rawMessageRepo,
		aggregatedRepo: aggregatedRepo,
		logger:         log,
	}
}

type aggregatorService struct {
	registry       *registry.Registry
	weights        map[string]float64
	rawMessageRepo repository.RawMessageRepository
	aggregatedRepo repository.AggregatedSentimentRepository
	logger         *logger.Logger
}

func (s *aggregatorService) Aggregate(ctx context.Context, start, end time.Time) ([]dto.BucketEntry, error) {
	raw, err := s.rawMessageRepo.FetchScoresBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	start = start.UTC().Truncate(bucketWindow)
	end = end.UTC()
	var buckets []time.Time
	for t := start; !t.After(end); t = t.Add(bucketWindow) {
		buckets = append(buckets, t)
	}

	grouped := make(map[time.Time]map[uint][]repository.MessageScore, len(buckets))
	for _, t := range buckets {
		grouped[t] = make(map[uint][]repository.MessageScore)
	}
	for _, m := range raw {
		b := m.CreatedAt.UTC().Truncate(bucketWindow)
		if b.Before(start) {
			b = start
		}
		if b.After(end) {
			continue
		}
		grouped[b][m.CurrencyID] = append(grouped[b][m.CurrencyID], m)
	}

	coinIDs := make([]uint, 0, len(s.registry.Coins))
	for _, coin := range s.registry.Coins {
		coinIDs = append(coinIDs, coin.ID)
	}
	lastSent, err := s.aggregatedRepo.LastBefore(ctx, coinIDs, start)
	if err != nil {
		return nil, err
	}

	questionCodes := s.registry.QuestionCodes()

	var (
		resp     []dto.BucketEntry
		toInsert []entity.AggregatedSentiment
	)
	for _, t := range buckets {
		coinsOut := make(map[string]float64, len(s.registry.Coins))

		for _, coin := range s.registry.Coins {
			msgs := grouped[t][coin.ID]
			var sent float64

			if len(msgs) > 0 {
				questionScores := map[string][]float64{}
				for _, m := range msgs {
					if code, ok := questionCodes[m.QuestionID]; ok {
						questionScores[code] = append(questionScores[code], m.SentimentScore)
					}
				}
				sent = CalculateFinalSentiment(s.weights, questionScores)
				lastSent[coin.ID] = sent
			} else {
				// carry-forward; LastBefore already backfilled history
				sent = lastSent[coin.ID]
				lastSent[coin.ID] = sent
			}

			toInsert = append(toInsert, entity.AggregatedSentiment{
				CoinID:         coin.ID,
				WindowStart:    t,
				SentimentScore: sent,
			})
			coinsOut[coin.Code] = sent
		}

		resp = append(resp, dto.BucketEntry{
			Time:  t.Format(time.RFC3339),
			Coins: coinsOut,
		})
	}

	if err := s.aggregatedRepo.InsertBatch(ctx, toInsert); err != nil {
		s.logger.Error("Failed to bulk insert aggregated sentiments", logger.ErrorField(err))
	} else {
		s.logger.Info("Aggregated sentiments stored", logger.IntField("records", len(toInsert)))
	}

	return resp, nil
}

func (s *aggregatorService) TrailingSentiment(ctx context.Context) ([]dto.TrailingBucket, error) {
	now := time.Now()
	samples, err := s.rawMessageRepo.FetchScoresSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	bucketEnds := []time.Time{
		now.Add(-2 * bucketWindow),
		now.Add(-bucketWindow),
		now,
	}

	response := make([]dto.TrailingBucket, 0, len(bucketEnds))
	for _, end := range bucketEnds {
		start := end.Add(-bucketWindow)
		entry := dto.TrailingBucket{
			"time": end.Format("02-January-2006 15:04"),
		}

		sums := map[uint]float64{}
		counts := map[uint]int{}
		for _, m := range samples {
			if m.CreatedAt.After(start) && !m.CreatedAt.After(end) {
				sums[m.CurrencyID] += m.SentimentScore
				counts[m.CurrencyID]++
			}
		}
		for cid, sum := range sums {
			entry[strconv.FormatUint(uint64(cid), 10)] = sum / float64(counts[cid])
		}
		response = append(response, entry)
	}
	return response, nil
}

func (s *aggregatorService) MinuteBuckets(ctx context.Context) ([]dto.MinuteBucket, error) {
	samples, err := s.rawMessageRepo.FetchScoresSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	grouped := make(map[time.Time][]repository.MessageScore)
	for _, m := range samples {
		bucket := m.CreatedAt.UTC().Truncate(time.Minute)
		grouped[bucket] = append(grouped[bucket], m)
	}

	times := make([]time.Time, 0, len(grouped))
	for t := range grouped {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	resp := make([]dto.MinuteBucket, 0, len(times))
	for _, t := range times {
		sums := map[uint]float64{}
		counts := map[uint]int{}
		for _, m := range grouped[t] {
			sums[m.CurrencyID] += m.SentimentScore
			counts[m.CurrencyID]++
		}

		coins := make([]map[string]float64, 0, len(sums))
		for cid, sum := range sums {
			coins = append(coins, map[string]float64{
				strconv.FormatUint(uint64(cid), 10): sum / float64(counts[cid]),
			})
		}
		resp = append(resp, dto.MinuteBucket{
			Time:  t.Format("2006-01-02T15:04Z"),
			Coins: coins,
		})
	}
	return resp, nil
}
