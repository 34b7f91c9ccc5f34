package answer

// Reward tiers by failed attempts before the successful submission.
// First-try success pays the most; the third failure pays nothing and
// terminates the task.
const (
	scoreFirstTry  = 10
	scoreSecondTry = 7
	scoreThirdTry  = 5
)

func rewardFor(priorAttempts int) int {
	switch priorAttempts {
	case 0:
		return scoreFirstTry
	case 1:
		return scoreSecondTry
	case 2:
		return scoreThirdTry
	default:
		return 0
	}
}
