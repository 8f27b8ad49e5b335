package shogi

// PieceType represents an unowned piece kind, one of the 14 distinct
// kinds a shogi piece can take (the 8 base kinds plus 6 promotable
// promoted forms; Gold and King never promote).
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	PromotedPawn   // "Tokin"
	PromotedLance
	PromotedKnight
	PromotedSilver
	PromotedBishop // "Horse"
	PromotedRook   // "Dragon"

	NumPieceTypes
)

// NumHandPieceTypes is the number of piece kinds that can be held in hand:
// Pawn, Lance, Knight, Silver, Gold, Bishop, Rook. Promoted pieces and the
// King are never held in hand.
const NumHandPieceTypes = 7

var handOrder = [NumHandPieceTypes]PieceType{Pawn, Lance, Knight, Silver, Gold, Bishop, Rook}

// HandIndex returns the hand-slot index for a base piece type, or -1 if the
// piece type can't be held in hand.
func HandIndex(pt PieceType) int {
	for i, p := range handOrder {
		if p == pt {
			return i
		}
	}
	return -1
}

// IsPromotable reports whether pt has a promoted form.
func (pt PieceType) IsPromotable() bool {
	switch pt {
	case Pawn, Lance, Knight, Silver, Bishop, Rook:
		return true
	default:
		return false
	}
}

// Promote returns the promoted form of pt, or pt unchanged if not promotable.
func (pt PieceType) Promote() PieceType {
	switch pt {
	case Pawn:
		return PromotedPawn
	case Lance:
		return PromotedLance
	case Knight:
		return PromotedKnight
	case Silver:
		return PromotedSilver
	case Bishop:
		return PromotedBishop
	case Rook:
		return PromotedRook
	default:
		return pt
	}
}

// Demote returns the unpromoted base form of pt, or pt unchanged if pt is
// already a base form.
func (pt PieceType) Demote() PieceType {
	switch pt {
	case PromotedPawn:
		return Pawn
	case PromotedLance:
		return Lance
	case PromotedKnight:
		return Knight
	case PromotedSilver:
		return Silver
	case PromotedBishop:
		return Bishop
	case PromotedRook:
		return Rook
	default:
		return pt
	}
}

// IsPromoted reports whether pt is a promoted form.
func (pt PieceType) IsPromoted() bool {
	return pt != pt.Demote()
}

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "P"
	case Lance:
		return "L"
	case Knight:
		return "N"
	case Silver:
		return "S"
	case Gold:
		return "G"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case King:
		return "K"
	case PromotedPawn:
		return "+P"
	case PromotedLance:
		return "+L"
	case PromotedKnight:
		return "+N"
	case PromotedSilver:
		return "+S"
	case PromotedBishop:
		return "+B"
	case PromotedRook:
		return "+R"
	default:
		return "?"
	}
}

// Side is the playing side: Black (sente, moves first) or White (gote).
type Side uint8

const (
	Black Side = iota
	White

	NumSides
)

func (s Side) Opponent() Side {
	if s == Black {
		return White
	}
	return Black
}

func (s Side) String() string {
	if s == Black {
		return "b"
	}
	return "w"
}

// Piece is a PieceType owned by a Side.
type Piece struct {
	Type PieceType
	Side Side
}

var NoPiece = Piece{}

func (p Piece) IsValid() bool { return p.Type != NoPieceType }

func (p Piece) String() string {
	if !p.IsValid() {
		return "."
	}
	if p.Side == White {
		s := p.Type.String()
		out := make([]byte, 0, len(s))
		for i := 0; i < len(s); i++ {
			if s[i] != '+' {
				out = append(out, s[i]+32)
			} else {
				out = append(out, s[i])
			}
		}
		return string(out)
	}
	return p.Type.String()
}
