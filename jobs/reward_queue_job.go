package jobs

import (
	"log"

	"github.com/okuracookware/referral-api/services"
)

// ProcessRewardQueue sweeps converted referrals past cooldown and issues
// their rewards. Scheduled hourly; safe to re-run since selection is by
// status.
func ProcessRewardQueue() {
	log.Println("Running job: ProcessRewardQueue...")

	result, err := services.ProcessRewardQueue()
	if err != nil {
		log.Printf("🔥 Reward queue sweep failed: %v", err)
		return
	}

	if result.Total > 0 {
		log.Printf("✅ Reward queue sweep complete: %d/%d referrals processed", result.Processed, result.Total)
	}
}
