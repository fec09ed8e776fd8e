package puzzle

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Defaults are used when the host page passes no puzzles.
var Defaults = []Definition{
	{
		FEN:     "r3k2r/1b1p1pp1/3qp3/p1bP4/Pp3B2/6P1/1PP1QPB1/R4RK1 b kq - 0 1",
		Moves:   "d6d5,g2d5,b7d5,a1d1,h8h1",
		Message: "Найдите выигрывающую комбинацию",
	},
	{
		FEN:     "3n3r/2p3k1/1pbbpRpp/6r1/3P4/2PBQ2P/q5P1/5RK1 w - - 0 1",
		Moves:   "e3g5,h6g5,f6g6,g7h7,g6e6,h7g7,e6g6,g7h7,g6d6,h7g7,d6g6,g7h7,g6c6,h7g7,c6g6,g7h7,g6b6,h7g7,b6g6,g7h7,g6a6,h7g7,a6a2",
		Message: "Найдите выигрывающую комбинацию",
	},
	{
		FEN:     "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K b - - 0 1",
		Moves:   "d8h4,[g4h4,g8g1|h2h3,h4h3]",
		Message: "Найдите выигрывающий ход (2 варианта)",
	},
}

// ShortNotationDefaults is the same set written in short notation, plus a puzzle
// with nested branches and an alternative set.
var ShortNotationDefaults = []Definition{
	{
		FEN:     "r3k2r/1b1p1pp1/3qp3/p1bP4/Pp3B2/6P1/1PP1QPB1/R4RK1 b kq - 0 1",
		Moves:   "Qxd5,Bxd5,Bxd5,Rad1,Rh1+",
		Message: "Найдите выигрывающую комбинацию",
	},
	{
		FEN:     "3n3r/2p3k1/1pbbpRpp/6r1/3P4/2PBQ2P/q5P1/5RK1 w - - 0 1",
		Moves:   "Qxg5+,hxg5,Rxg6+,Kh7,Rxe6,Kg7,Rg6+,Kh7,Rxd6,Kg7,Rg6+,Kh7,Rxc6,Kg7,Rg6+,Kh7,Rxb6,Kg7,Rg6+,Kh7,Ra6,Kg7,Rxa2",
		Message: "Найдите выигрывающую комбинацию",
	},
	{
		FEN:     "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K b - - 0 1",
		Moves:   "Qh4,[Rxh4,Rg1#|h3,Qxh3#]",
		Message: "Найдите выигрывающий ход (2 варианта)",
	},
	{
		FEN:     "6k1/5pb1/1p1N3p/p5p1/5q2/Q6P/PPr5/3RR2K w - - 0 1",
		Moves:   "Re8, [Kh7, Qd3, f5, Qxc2|Bf8, Rxf8, [Kg7, Rxf7, Qxf7, Nxf7| Kxf8, Nf5, [Kg8, Qf8, [Kxf8, Rd8#|Kh7, Qg7#] | Ke8, {Ng7# | Qe7#}]]]",
		Message: "Найдите выигрывающую комбинацию",
	},
}

// Catalog is the YAML file layout:
//
//	puzzles:
//	  - fen: "..."
//	    moves: "..."
//	    message: "..."
type Catalog struct {
	Puzzles []Definition `yaml:"puzzles"`
}

// LoadCatalog reads a YAML catalog from disk.
func LoadCatalog(path string) ([]Definition, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) ([]Definition, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(c.Puzzles) == 0 {
		return nil, fmt.Errorf("catalog: no puzzles")
	}
	return c.Puzzles, nil
}
