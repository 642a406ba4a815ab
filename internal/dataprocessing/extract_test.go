package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractor_Extract_CSV(t *testing.T) {
	path := writeCSV(t, `order_id,product_name,category,quantity,unit_price,total_amount,customer_id,order_date,region
ORD001,Laptop,Electronics,1,999.99,999.99,CUST01,2024-01-15,North
ORD002,Mouse,Electronics,2,25.50,51.00,CUST02,2024-01-16,South
`)

	extractor := NewExtractor(nil)
	raws, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "ORD001", raws[0].OrderID)
	assert.Equal(t, "Laptop", raws[0].ProductName)
	assert.Equal(t, "999.99", raws[0].UnitPrice)
	assert.Equal(t, "2024-01-16", raws[1].OrderDate)
	assert.Equal(t, "South", raws[1].Region)
}

func TestExtractor_Extract_ReorderedColumns(t *testing.T) {
	path := writeCSV(t, `region,order_date,customer_id,total_amount,unit_price,quantity,category,product_name,order_id
North,2024-01-15,CUST01,999.99,999.99,1,Electronics,Laptop,ORD001
`)

	raws, err := NewExtractor(nil).Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "ORD001", raws[0].OrderID)
	assert.Equal(t, "North", raws[0].Region)
}

func TestExtractor_Extract_MissingFile(t *testing.T) {
	_, err := NewExtractor(nil).Extract(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExtractor_Extract_MissingColumn(t *testing.T) {
	path := writeCSV(t, `order_id,product_name,category,quantity,unit_price,total_amount,customer_id,order_date
ORD001,Laptop,Electronics,1,999.99,999.99,CUST01,2024-01-15
`)

	_, err := NewExtractor(nil).Extract(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestExtractor_Extract_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")

	f := excelize.NewFile()
	header := []interface{}{"order_id", "product_name", "category", "quantity", "unit_price", "total_amount", "customer_id", "order_date", "region"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []interface{}{"ORD001", "Laptop", "Electronics", "1", "999.99", "999.99", "CUST01", "2024-01-15", "North"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	raws, err := NewExtractor(nil).Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "Laptop", raws[0].ProductName)
	assert.Equal(t, "North", raws[0].Region)
}

func TestExtractor_Extract_ShortRow(t *testing.T) {
	path := writeCSV(t, `order_id,product_name,category,quantity,unit_price,total_amount,customer_id,order_date,region
ORD001,Laptop,Electronics,1,999.99,999.99,CUST01,2024-01-15
`)

	raws, err := NewExtractor(nil).Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	// The short row's trailing cell reads as empty, to be imputed later.
	assert.Equal(t, "", raws[0].Region)
}
