package experience

// RewardConfig holds configurable reward values
type RewardConfig struct {
	LineClear float64 // per row swept since the previous reward
	StepCost  float64 // subtracted every tick
}

// DefaultRewardConfig returns the default reward configuration
func DefaultRewardConfig() *RewardConfig {
	return &RewardConfig{
		LineClear: 10,
		StepCost:  0.1,
	}
}

// CalculateReward computes the reward for a tick that swept the given number of rows
func CalculateReward(clearedLines int) float64 {
	return CalculateRewardWithConfig(clearedLines, DefaultRewardConfig())
}

// CalculateRewardWithConfig computes reward using custom configuration
func CalculateRewardWithConfig(clearedLines int, config *RewardConfig) float64 {
	reward := 0.0
	reward += float64(clearedLines) * config.LineClear
	reward -= config.StepCost
	return reward
}
