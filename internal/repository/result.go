package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
)

const (
	recentMatchesKey = "matches:recent"
	recentMatchesMax = 100

	fieldWins      = "wins"
	fieldLosses    = "losses"
	fieldDraws     = "draws"
	fieldAbandoned = "abandoned"
)

var ErrMatchNotFound = fmt.Errorf("match %w", apperror.ErrNotFound)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	GetByID(ctx context.Context, id string) (*entity.MatchResult, error)
	GetStats(ctx context.Context, playerID string) (*entity.PlayerStats, error)
	Recent(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

type dbResult struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultRepository stores match results as JSON under "match:<id>" (expiring after ttl, 0
// keeps them), a capped list of recent matches and a stats hash per player.
func NewResultRepository(client *redis.Client, ttl time.Duration) ResultRepository {
	return &dbResult{
		client: client,
		ttl:    ttl,
	}
}

func matchKey(id string) string {
	return "match:" + id
}

func statsKey(playerID string) string {
	return "stats:" + playerID
}

func (that *dbResult) Save(ctx context.Context, result *entity.MatchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal match result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, matchKey(result.ID), resultJSON, that.ttl)
		pipe.LPush(ctx, recentMatchesKey, resultJSON)
		pipe.LTrim(ctx, recentMatchesKey, 0, recentMatchesMax-1)

		for playerID, field := range statFields(result) {
			pipe.HIncrBy(ctx, statsKey(playerID), field, 1)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save match result: %w", err)
	}

	return nil
}

// statFields maps each player of the result to the counter it increments. The player who stays
// after the opponent disconnects is credited with a win.
func statFields(result *entity.MatchResult) map[string]string {
	fields := make(map[string]string, len(result.Players))

	for _, playerID := range result.Players {
		switch result.Outcome {
		case entity.OutcomeDraw:
			fields[playerID] = fieldDraws
		case entity.OutcomeAbandoned:
			if playerID == result.Disconnected {
				fields[playerID] = fieldAbandoned
			} else {
				fields[playerID] = fieldWins
			}
		default:
			if playerID == result.Winner {
				fields[playerID] = fieldWins
			} else {
				fields[playerID] = fieldLosses
			}
		}
	}

	return fields
}

func (that *dbResult) GetByID(ctx context.Context, id string) (*entity.MatchResult, error) {
	response, err := that.client.Get(ctx, matchKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var result entity.MatchResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match result: %w", err)
	}

	return &result, nil
}

func (that *dbResult) GetStats(ctx context.Context, playerID string) (*entity.PlayerStats, error) {
	values, err := that.client.HGetAll(ctx, statsKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("player %s stats %w", playerID, apperror.ErrNotFound)
	}

	stats := &entity.PlayerStats{PlayerID: playerID}

	for field, target := range map[string]*int64{
		fieldWins:      &stats.Wins,
		fieldLosses:    &stats.Losses,
		fieldDraws:     &stats.Draws,
		fieldAbandoned: &stats.Abandoned,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s counter: %w", field, err)
		}
	}

	return stats, nil
}

func (that *dbResult) Recent(ctx context.Context, limit int) ([]*entity.MatchResult, error) {
	if limit <= 0 || limit > recentMatchesMax {
		limit = recentMatchesMax
	}

	items, err := that.client.LRange(ctx, recentMatchesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent matches: %w", err)
	}

	results := make([]*entity.MatchResult, 0, len(items))
	for _, item := range items {
		var result entity.MatchResult
		if err = json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}
