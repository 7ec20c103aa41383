package game

import "mathblast/internal/domain"

// Achievement and badge labels. The strings are part of the client contract.
const (
	AchievementPerfect    = "Perfect Score!"
	AchievementMaster     = "Math Master"
	AchievementApprentice = "Math Apprentice"
	AchievementChallenge  = "Challenge Accepted"

	BadgeFirstGame   = "First Game"
	BadgeHotStreak   = "Hot Streak (3 games with 8+)"
	BadgeHighScore   = "New High Score!"
	BadgeConsistent  = "Consistent Performer"
	BadgeComeback    = "Comeback Kid"
	BadgePersistence = "Persistence"
)

// Achievements derives all labels earned by a final score. Rules are
// cumulative, evaluated in a fixed order.
func Achievements(score, total int, level domain.Level) []string {
	var out []string
	if score == total {
		out = append(out, AchievementPerfect)
	}
	if float64(score) >= 0.8*float64(total) {
		out = append(out, AchievementMaster)
	}
	if float64(score) >= 0.5*float64(total) {
		out = append(out, AchievementApprentice)
	}
	if level == domain.LevelHard && float64(score) >= 0.7*float64(total) {
		out = append(out, AchievementChallenge)
	}
	return out
}

// Badges derives all labels earned by a final score against the player's
// prior games. History is ordered most-recent-first and capped at ten
// records; all qualifying badges are returned, no early exit.
func Badges(history []domain.ScoreRecord, score, total int) []string {
	if len(history) > 10 {
		history = history[:10]
	}

	var out []string
	if len(history) == 0 {
		out = append(out, BadgeFirstGame)
	}
	if len(history) >= 3 && allAtLeast(history[:3], 8) {
		out = append(out, BadgeHotStreak)
	}
	if len(history) > 0 && score >= maxScore(history) {
		// Ties count as a new high.
		out = append(out, BadgeHighScore)
	}
	if len(history) >= 5 && allAbove(history[:5], 0.7*float64(total)) {
		out = append(out, BadgeConsistent)
	}
	if len(history) > 0 && score > history[0].Score {
		out = append(out, BadgeComeback)
	}
	if len(history) >= 9 {
		out = append(out, BadgePersistence)
	}
	return out
}

func allAtLeast(records []domain.ScoreRecord, min int) bool {
	for _, r := range records {
		if r.Score < min {
			return false
		}
	}
	return true
}

func allAbove(records []domain.ScoreRecord, threshold float64) bool {
	for _, r := range records {
		if float64(r.Score) < threshold {
			return false
		}
	}
	return true
}

func maxScore(records []domain.ScoreRecord) int {
	best := records[0].Score
	for _, r := range records[1:] {
		if r.Score > best {
			best = r.Score
		}
	}
	return best
}
