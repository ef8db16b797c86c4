package game

// RowScore sums card strengths in one row of the seat's half-board.
func (b *Board) RowScore(seat Seat, row Row) int {
	total := 0
	for _, c := range b.players[seat].HalfBoard[row] {
		total += c.Strength
	}
	return total
}

// RowScores returns the score of each scored row.
func (b *Board) RowScores(seat Seat) map[Row]int {
	scores := make(map[Row]int, len(ScoredRows))
	for _, row := range ScoredRows {
		scores[row] = b.RowScore(seat, row)
	}
	return scores
}

// TotalScore sums all scored rows.
func (b *Board) TotalScore(seat Seat) int {
	total := 0
	for _, row := range ScoredRows {
		total += b.RowScore(seat, row)
	}
	return total
}

// WonRows counts, per player, the scored rows where their score is at least
// the opponent's. A row where both score 0 counts for neither; any other tie
// counts for both.
func (b *Board) WonRows() (top, bottom int) {
	for _, row := range ScoredRows {
		t, bt := b.RowScore(Top, row), b.RowScore(Bottom, row)
		if t == 0 && bt == 0 {
			continue
		}
		if t >= bt {
			top++
		}
		if bt >= t {
			bottom++
		}
	}
	return top, bottom
}

// RoundWinner names the player(s) currently ahead on won rows. A tie names
// both, top first.
func (b *Board) RoundWinner() []string {
	top, bottom := b.WonRows()
	var names []string
	if top >= bottom {
		names = append(names, b.players[Top].Name)
	}
	if bottom >= top {
		names = append(names, b.players[Bottom].Name)
	}
	return names
}

func (b *Board) updateWonRows() {
	b.players[Top].CurrentRowsWon, b.players[Bottom].CurrentRowsWon = b.WonRows()
}
