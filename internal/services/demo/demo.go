// Package demo generates placeholder traffic for the connections and
// threats pages. The panel ships without a capture path; when demo mode is
// on this feed is what the charts render. A second job prunes rows older
// than the configured retention window.
package demo

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"

	"ngfw-panel/internal/config"
	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/connections"
	"ngfw-panel/internal/services/threats"
)

var scheduler *cron.Cron

var (
	protocols    = []models.Protocol{models.ProtocolTCP, models.ProtocolTCP, models.ProtocolUDP, models.ProtocolICMP}
	applications = []string{"https", "dns", "ssh", "smtp", "rdp", "unknown"}
	states       = []string{"established", "established", "closing", "closed"}
	severities   = []models.Severity{models.SeverityLow, models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical}
	categories   = []string{"scan", "intrusion", "malware", "dos"}
)

// Init starts the feed and retention jobs. Call once from main after the
// store is connected.
func Init(cfg config.DemoConfig) {
	if !cfg.Enabled {
		return
	}

	scheduler = cron.New()

	scheduler.AddFunc("@every 15s", func() {
		if _, err := connections.Record(randomConnection()); err != nil {
			return
		}
		if rand.Intn(4) == 0 {
			threats.Record(randomThreat())
		}
	})

	scheduler.AddFunc("@every 10m", func() {
		cutoff := time.Now().UTC().Add(-cfg.Retention.Std())
		if n, err := connections.Prune(cutoff); err == nil && n > 0 {
			log.Printf("demo: pruned %d connections", n)
		}
		if n, err := threats.Prune(cutoff); err == nil && n > 0 {
			log.Printf("demo: pruned %d threat events", n)
		}
	})

	scheduler.Start()
	log.Println("demo feed started")
}

// Stop halts the feed jobs.
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}

func randomConnection() connections.RecordInput {
	return connections.RecordInput{
		Protocol:        protocols[rand.Intn(len(protocols))],
		SourceIP:        randomLanIP(),
		SourcePort:      1024 + rand.Intn(60000),
		DestinationIP:   randomWanIP(),
		DestinationPort: []int{443, 53, 22, 25, 3389, 8080}[rand.Intn(6)],
		State:           states[rand.Intn(len(states))],
		Application:     applications[rand.Intn(len(applications))],
		BytesSent:       int64(rand.Intn(1 << 20)),
		BytesReceived:   int64(rand.Intn(1 << 22)),
	}
}

func randomThreat() threats.RecordInput {
	return threats.RecordInput{
		Severity:      severities[rand.Intn(len(severities))],
		Category:      categories[rand.Intn(len(categories))],
		SourceIP:      randomWanIP(),
		DestinationIP: randomLanIP(),
		ActionTaken:   "blocked",
		Description:   "synthetic event from the demo feed",
	}
}

func randomLanIP() string {
	return fmt.Sprintf("192.168.%d.%d", rand.Intn(4), 2+rand.Intn(250))
}

func randomWanIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", 11+rand.Intn(200), rand.Intn(256), rand.Intn(256), 1+rand.Intn(254))
}
