package clickhouse

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
)

func newRound(day, value uint64, recorded time.Time) model.Round {
	return model.Round{
		Oracle:     "btc",
		Day:        day,
		Value:      uint256.NewInt(value),
		Kind:       model.RoundTracked,
		Pools:      2,
		Hashrate:   100,
		RecordedAt: recorded,
	}
}

func (s *RepositorySuite) TestRoundsRoundTrip() {
	now := time.Now().UTC().Truncate(time.Millisecond)

	s.metrics.EXPECT().Observe("insert_rounds", "btc", gomock.Nil(), gomock.Any()).Times(2)
	s.metrics.EXPECT().Observe("rounds", "btc", gomock.Nil(), gomock.Any()).Times(1)
	s.metrics.EXPECT().Observe("max_round_day", "btc", gomock.Nil(), gomock.Any()).Times(2)

	day, err := s.repo.MaxRoundDay(s.testCtx, "btc")
	s.Require().NoError(err)
	s.Zero(day)

	s.Require().NoError(s.repo.InsertRounds(s.testCtx, []model.Round{
		newRound(11, 700, now),
		newRound(10, 650, now),
	}))
	complemented := newRound(11, 720, now.Add(time.Second))
	complemented.Kind = model.RoundComplemented
	s.Require().NoError(s.repo.InsertRounds(s.testCtx, []model.Round{complemented}))

	rounds, err := s.repo.Rounds(s.testCtx, "btc")
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal(uint64(10), rounds[0].Day)
	s.Equal(uint64(650), rounds[0].Value.Uint64())
	s.Equal(uint64(11), rounds[1].Day)
	s.Equal(uint64(720), rounds[1].Value.Uint64())
	s.Equal(model.RoundComplemented, rounds[1].Kind)

	day, err = s.repo.MaxRoundDay(s.testCtx, "btc")
	s.Require().NoError(err)
	s.Equal(uint64(11), day)
}

func (s *RepositorySuite) TestInsertEvents() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	entries := []model.JournalEntry{
		{
			ID: common.Hash{1}.Hex()[2:],
			Event: model.Event{
				Source: "hy-1", Type: model.EventBind, Seq: 1, Time: now,
				Account: common.HexToAddress("0x0a11ce"), Amount: new(uint256.Int).SetAllOne(),
			},
		},
		{
			ID: common.Hash{2}.Hex()[2:],
			Event: model.Event{
				Source: "hy-1", Type: model.EventDeliver, Seq: 2, Time: now, Day: 1,
			},
		},
	}

	s.metrics.EXPECT().Observe("insert_events", "hy-1", gomock.Nil(), gomock.Any()).Times(2)

	s.Require().NoError(s.repo.InsertEvents(s.testCtx, entries))
	s.Require().NoError(s.repo.InsertEvents(s.testCtx, entries[:1]))
	s.Equal(uint64(len(entries)), s.countRows("settlement_events"))

	s.metrics.EXPECT().Observe("count_events", gomock.Any(), gomock.Nil(), gomock.Any()).Times(2)
	stored, err := s.repo.CountEvents(s.testCtx, "hy-1")
	s.Require().NoError(err)
	s.NotZero(stored)
	stored, err = s.repo.CountEvents(s.testCtx, "hy-2")
	s.Require().NoError(err)
	s.Zero(stored)
}
