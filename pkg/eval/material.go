package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/herohde/shogo/pkg/shogierr"
)

// MaterialValueSet carries a named, versioned table of piece values, tapered
// between middlegame (MG) and endgame (EG), for pieces on the board and
// (separately, since a piece in hand is worth slightly more than the same
// piece on the board in most tunings) pieces held in hand.
type MaterialValueSet struct {
	ID          string                               `toml:"id" json:"id"`
	DisplayName string                               `toml:"display_name" json:"display_name"`
	Source      string                               `toml:"source,omitempty" json:"source,omitempty"`
	Version     string                               `toml:"version,omitempty" json:"version,omitempty"`
	Board       [shogi.NumPieceTypes]TaperedScore     `toml:"board" json:"board"`
	Hand        [shogi.NumHandPieceTypes]TaperedScore `toml:"hand" json:"hand"`
}

// BoardValue returns the tapered value of pt sitting on the board.
func (s *MaterialValueSet) BoardValue(pt shogi.PieceType) TaperedScore {
	return s.Board[pt]
}

// HandValue returns the tapered value of pt held in hand. pt must be a base
// (unpromoted) hand-eligible piece type.
func (s *MaterialValueSet) HandValue(pt shogi.PieceType) TaperedScore {
	idx := shogi.HandIndex(pt)
	if idx < 0 {
		return TaperedScore{}
	}
	return s.Hand[idx]
}

// Validate reports whether every non-King board value is populated.
func (s *MaterialValueSet) Validate() error {
	for pt := shogi.Pawn; pt < shogi.NumPieceTypes; pt++ {
		if pt == shogi.King {
			continue
		}
		v := s.Board[pt]
		if v.MG == 0 && v.EG == 0 {
			return shogierr.Newf(shogierr.ConfigInvalid, "material value set %q: missing board value for %v", s.ID, pt)
		}
	}
	return nil
}

// LoadValueSet reads a MaterialValueSet from a TOML or JSON file, chosen by
// the path's extension.
func LoadValueSet(path string) (*MaterialValueSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shogierr.Wrap(shogierr.ConfigInvalid, "reading material value set", err)
	}

	var set MaterialValueSet
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &set); err != nil {
			return nil, shogierr.Wrap(shogierr.ConfigInvalid, "parsing toml material value set", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, shogierr.Wrap(shogierr.ConfigInvalid, "parsing json material value set", err)
		}
	default:
		return nil, shogierr.Newf(shogierr.ConfigInvalid, "unsupported material value set format %q", ext)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// ts is shorthand for TaperedScore{mg, eg}, matching the conciseness of the
// table below: the board/hand arrays are indexed by PieceType/HandIndex and
// read far more naturally as a flat literal than a switch.
func ts(mg, eg int32) TaperedScore { return TaperedScore{MG: mg, EG: eg} }

// Classic is a conservative, widely-used piece-value tuning: modest
// promotion bonuses, rook valued about a fifth above a bishop.
var Classic = &MaterialValueSet{
	ID:          "classic",
	DisplayName: "Classic Value Set",
	Source:      "legacy engine defaults",
	Version:     "2023.04",
	Board: [shogi.NumPieceTypes]TaperedScore{
		shogi.NoPieceType:     {},
		shogi.Pawn:            ts(100, 110),
		shogi.Lance:           ts(280, 300),
		shogi.Knight:          ts(320, 330),
		shogi.Silver:          ts(430, 440),
		shogi.Gold:            ts(500, 500),
		shogi.Bishop:          ts(780, 820),
		shogi.Rook:            ts(950, 1020),
		shogi.King:            ts(20000, 20000),
		shogi.PromotedPawn:    ts(480, 520),
		shogi.PromotedLance:   ts(480, 520),
		shogi.PromotedKnight:  ts(500, 530),
		shogi.PromotedSilver:  ts(500, 530),
		shogi.PromotedBishop:  ts(1150, 1220),
		shogi.PromotedRook:    ts(1320, 1450),
	},
	Hand: [shogi.NumHandPieceTypes]TaperedScore{
		ts(105, 115), // Pawn
		ts(300, 310), // Lance
		ts(340, 350), // Knight
		ts(450, 460), // Silver
		ts(520, 520), // Gold
		ts(820, 860), // Bishop
		ts(990, 1080), // Rook
	},
}

// Research is a heavier, more aggressive tuning used in internal tuning
// studies: higher rook/bishop values and a richer promotion bonus.
var Research = &MaterialValueSet{
	ID:          "research",
	DisplayName: "Research Value Set",
	Source:      "internal tuning study",
	Version:     "2024.10",
	Board: [shogi.NumPieceTypes]TaperedScore{
		shogi.NoPieceType:     {},
		shogi.Pawn:            ts(100, 120),
		shogi.Lance:           ts(300, 280),
		shogi.Knight:          ts(350, 320),
		shogi.Silver:          ts(450, 460),
		shogi.Gold:            ts(500, 520),
		shogi.Bishop:          ts(800, 850),
		shogi.Rook:            ts(1000, 1100),
		shogi.King:            ts(20000, 20000),
		shogi.PromotedPawn:    ts(500, 550),
		shogi.PromotedLance:   ts(500, 540),
		shogi.PromotedKnight:  ts(520, 550),
		shogi.PromotedSilver:  ts(520, 550),
		shogi.PromotedBishop:  ts(1200, 1300),
		shogi.PromotedRook:    ts(1400, 1550),
	},
	Hand: [shogi.NumHandPieceTypes]TaperedScore{
		ts(110, 130), // Pawn
		ts(320, 300), // Lance
		ts(370, 350), // Knight
		ts(480, 490), // Silver
		ts(530, 550), // Gold
		ts(850, 920), // Bishop
		ts(1050, 1180), // Rook
	},
}

// TaperedMaterial evaluates a position by summing board and hand piece
// values under a MaterialValueSet, blended between middlegame and endgame
// by the position's remaining non-pawn material.
type TaperedMaterial struct {
	Values *MaterialValueSet
}

var _ Evaluator = TaperedMaterial{}

// Evaluate returns side's material score minus the opponent's, from side's
// perspective.
func (m TaperedMaterial) Evaluate(_ context.Context, b *board.Board, side shogi.Side, hands *shogi.Hands) Score {
	values := m.Values
	if values == nil {
		values = Classic
	}

	var us, them TaperedScore
	var phase int32

	pos := b.Position()
	for pt := shogi.Pawn; pt < shogi.NumPieceTypes; pt++ {
		n := int32(pos.Pieces(side, pt).PopCount())
		opp := int32(pos.Pieces(side.Opponent(), pt).PopCount())

		us = us.Add(values.BoardValue(pt).Scale(n))
		them = them.Add(values.BoardValue(pt).Scale(opp))
		phase += phaseWeight(pt) * (n + opp)
	}

	for _, pt := range []shogi.PieceType{shogi.Pawn, shogi.Lance, shogi.Knight, shogi.Silver, shogi.Gold, shogi.Bishop, shogi.Rook} {
		n := int32(hands.Count(side, pt))
		opp := int32(hands.Count(side.Opponent(), pt))

		us = us.Add(values.HandValue(pt).Scale(n))
		them = them.Add(values.HandValue(pt).Scale(opp))
		phase += phaseWeight(pt) * (n + opp)
	}

	blended := us.Add(TaperedScore{MG: -them.MG, EG: -them.EG}).Blend(phase)
	return Crop(Score(blended))
}

// NominalValue is a quick, phase-independent material estimate for pt
// (the middlegame board value under Classic), for move ordering where a
// full tapered evaluation would be overkill.
func NominalValue(pt shogi.PieceType) Score {
	return Score(Classic.BoardValue(pt).MG)
}

// NominalValueGain estimates the material swing of a move: the value of
// what it captures, or zero for a quiet move or a drop.
func NominalValueGain(m shogi.Move) Score {
	if !m.Capture.IsValid() {
		return 0
	}
	return NominalValue(m.Capture.Type)
}

func init() {
	if err := Classic.Validate(); err != nil {
		panic(fmt.Sprintf("eval: built-in classic value set invalid: %v", err))
	}
	if err := Research.Validate(); err != nil {
		panic(fmt.Sprintf("eval: built-in research value set invalid: %v", err))
	}
}
