package metrics

import (
	"fmt"
	"strings"
)

// Report renders daily usage and system health as plain text for the
// admin bot command and the CLI.
func Report(usage []DailyUsage, health SysHealth) string {
	var b strings.Builder
	b.WriteString("AI usage (last 7 days)\n")
	if len(usage) == 0 {
		b.WriteString("  no calls recorded\n")
	}
	for _, u := range usage {
		fmt.Fprintf(&b, "  %s  calls %d (failed %d)  tokens %d in / %d out\n",
			u.Date, u.TotalExecution, u.Failed, u.TotalPrompt, u.TotalCompletion)
	}

	b.WriteString("\nSystem\n")
	fmt.Fprintf(&b, "  memory %d MB alloc, %d MB sys, %d GC runs\n", health.AllocMB, health.SysMB, health.NumGC)
	fmt.Fprintf(&b, "  goroutines %d\n", health.Goroutines)
	fmt.Fprintf(&b, "  database %s\n", health.DatabaseSize)
	fmt.Fprintf(&b, "  profile files %d (%s)", health.ProfileFiles, health.ProfileSize)
	return b.String()
}
