package models

import "time"

// DailyRecord: ventas y egresos de una máquina en un día.
// (date, machine) es único; la semana se reemplaza completa al guardar.
type DailyRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Week      string    `gorm:"size:20;index;not null" json:"week"` // "Semana 38"
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_daily_records_date_machine" json:"date"`
	Machine   string    `gorm:"size:100;not null;uniqueIndex:idx_daily_records_date_machine;index" json:"machine"`
	Day       string    `gorm:"size:20;not null" json:"day"`
	Sales     int64     `gorm:"not null;default:0" json:"sales"`
	Expenses  int64     `gorm:"not null;default:0" json:"expenses"`
	CreatedAt time.Time `json:"created_at"`
}

func (r DailyRecord) Net() int64 {
	return r.Sales - r.Expenses
}
