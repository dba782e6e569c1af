package dispatch

import (
	"strings"
	"testing"

	"dispatch-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// Hücre sıralaması ham SQL'e girer; kolon adları modeldekiyle aynı olmalı
// ve PostgreSQL rezerve kelimeleri ("row") tırnaksız SQL'e sızmamalı.
func TestCellOrderMatchesColumnNames(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("dry-run db açılamadı: %v", err)
	}

	var cells []models.LoadingCell
	stmt := db.Order(cellOrder).Find(&cells).Statement

	if f := stmt.Schema.LookUpField("Row"); f == nil || f.DBName != "grid_row" {
		t.Fatalf("Row kolonu grid_row olmalı, f=%v", f)
	}
	if f := stmt.Schema.LookUpField("Col"); f == nil || f.DBName != "grid_col" {
		t.Fatalf("Col kolonu grid_col olmalı, f=%v", f)
	}

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "grid_row ASC, grid_col ASC") {
		t.Fatalf("ORDER BY grid kolonlarını kullanmalı, sql=%q", sql)
	}
	if strings.Contains(sql, " row ") || strings.Contains(sql, "BY row") {
		t.Fatalf("rezerve kelime 'row' tırnaksız SQL'e sızdı: %q", sql)
	}
}
