// Package connections backs the network connections page. It follows the
// query contract of the rules repository: AND-composed filters, clamped
// window, stable sort.
package connections

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
)

type Filters struct {
	Page     int
	Limit    int
	Search   string // substring over source ip, destination ip, application
	Protocol models.Protocol
	State    string
}

// RecordInput is what the demo feed (or an external collector) posts.
type RecordInput struct {
	Protocol        models.Protocol `json:"protocol"`
	SourceIP        string          `json:"source_ip"`
	SourcePort      int             `json:"source_port"`
	DestinationIP   string          `json:"destination_ip"`
	DestinationPort int             `json:"destination_port"`
	State           string          `json:"state"`
	Application     string          `json:"application"`
	BytesSent       int64           `json:"bytes_sent"`
	BytesReceived   int64           `json:"bytes_received"`
}

// Summary aggregates the connection table for the page header.
type Summary struct {
	Total       int64                     `json:"total"`
	Established int64                     `json:"established"`
	ByProtocol  map[models.Protocol]int64 `json:"by_protocol"`
	BytesSent   int64                     `json:"bytes_sent"`
	BytesRecv   int64                     `json:"bytes_received"`
}

func query(f Filters) *gorm.DB {
	q := database.DB.Model(&models.NetworkConnection{})
	if f.Search != "" {
		like := database.LikePattern(f.Search)
		q = q.Where("source_ip LIKE ? ESCAPE '|' OR destination_ip LIKE ? ESCAPE '|' OR application LIKE ? ESCAPE '|'", like, like, like)
	}
	if f.Protocol != "" {
		q = q.Where("protocol = ?", f.Protocol)
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	return q
}

// List returns one page of connections, newest first, id as tie-break.
func List(f Filters) ([]models.NetworkConnection, int64, error) {
	if !database.Ready() {
		return nil, 0, database.ErrNotConnected
	}

	page, limit := models.ClampWindow(f.Page, f.Limit)

	var total int64
	if err := query(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	conns := []models.NetworkConnection{}
	err := query(f).
		Order("started_at desc, id desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&conns).Error
	if err != nil {
		return nil, 0, err
	}
	return conns, total, nil
}

// Record inserts a connection row.
func Record(in RecordInput) (*models.NetworkConnection, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}
	if !in.Protocol.Valid() {
		return nil, models.NewValidationError("protocol", "unknown protocol")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	conn := models.NetworkConnection{
		ID:              id.String(),
		Protocol:        in.Protocol,
		SourceIP:        in.SourceIP,
		SourcePort:      in.SourcePort,
		DestinationIP:   in.DestinationIP,
		DestinationPort: in.DestinationPort,
		State:           in.State,
		Application:     in.Application,
		BytesSent:       in.BytesSent,
		BytesReceived:   in.BytesReceived,
		StartedAt:       now,
		CreatedAt:       now,
	}
	if conn.State == "" {
		conn.State = "established"
	}
	if err := database.DB.Create(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetSummary aggregates the connections table.
func GetSummary() (*Summary, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	s := &Summary{ByProtocol: map[models.Protocol]int64{}}
	if err := database.DB.Model(&models.NetworkConnection{}).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.NetworkConnection{}).
		Where("state = ?", "established").Count(&s.Established).Error; err != nil {
		return nil, err
	}

	type protoCount struct {
		Protocol models.Protocol
		Count    int64
	}
	var counts []protoCount
	if err := database.DB.Model(&models.NetworkConnection{}).
		Select("protocol, count(*) as count").
		Group("protocol").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		s.ByProtocol[c.Protocol] = c.Count
	}

	var traffic struct{ Sent, Recv int64 }
	if err := database.DB.Model(&models.NetworkConnection{}).
		Select("coalesce(sum(bytes_sent), 0) as sent, coalesce(sum(bytes_received), 0) as recv").
		Scan(&traffic).Error; err != nil {
		return nil, err
	}
	s.BytesSent = traffic.Sent
	s.BytesRecv = traffic.Recv

	return s, nil
}

// Prune removes connections that started before the cutoff. The demo
// sweeper calls this on a schedule.
func Prune(cutoff time.Time) (int64, error) {
	if !database.Ready() {
		return 0, database.ErrNotConnected
	}
	res := database.DB.Delete(&models.NetworkConnection{}, "started_at < ?", cutoff)
	return res.RowsAffected, res.Error
}
