package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"property-marketplace-backend/config"
	"property-marketplace-backend/contracts/repositories"
	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()
	os.Exit(m.Run())
}

const rentalTestTemplate = `<html><body>
<h1>{{.ContractNumber}}</h1>
<p>{{.OwnerName}} / {{.ClientName}}</p>
<p>{{.PropertyTitle}}</p>
<table>{{range $i, $row := .FinancialRows}}<tr><td>{{add1 $i}}</td><td>{{$row.Label}}</td><td>{{$row.Amount}}</td></tr>{{end}}</table>
<p>{{.TotalLabel}}: {{.TotalAmount}}</p>
</body></html>`

const saleTestTemplate = `<html><body>
<h1>Sale {{.ContractNumber}}</h1>
<p>{{.OwnerName}} / {{.ClientName}}</p>
<p>{{.TotalLabel}}: {{.TotalAmount}}</p>
</body></html>`

func setupContractFixture(t *testing.T, renderPDF func(string, string, string) (string, error)) (*ContractService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Contract{}))

	templateDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "rental-contract.html"), []byte(rentalTestTemplate), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "sale-contract.html"), []byte(saleTestTemplate), 0644))

	repo := repositories.NewContractRepository(db)
	return NewContractService(repo, templateDir, t.TempDir(), renderPDF), db
}

func TestGenerateForActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("rental contract", func(t *testing.T) {
		var pdfCalls int32
		service, _ := setupContractFixture(t, func(htmlContent, dirPath, filename string) (string, error) {
			atomic.AddInt32(&pdfCalls, 1)
			assert.Contains(t, htmlContent, "CTR-")
			return filepath.Join(dirPath, filename), nil
		})

		activity := buildRentalActivity()
		contract, err := service.GenerateForActivity(ctx, activity)
		require.NoError(t, err)

		assert.Equal(t, activity.ID, contract.ActivityID)
		assert.Equal(t, models.FinalContract, contract.Status)
		assert.Equal(t, "system", contract.CreatedBy)
		assert.NotEmpty(t, contract.ContractURL)
		assert.NotEmpty(t, contract.ContractPdfURL)
		assert.Equal(t, int32(1), atomic.LoadInt32(&pdfCalls))

		// The rendered HTML document exists and carries the parties.
		rendered, err := os.ReadFile(contract.ContractURL)
		require.NoError(t, err)
		assert.Contains(t, string(rendered), "OLIVIA OWNER")
		assert.Contains(t, string(rendered), "NOAH CLIENT")
		assert.Contains(t, string(rendered), "Monthly rent")
	})

	t.Run("sale contract picks the sale template", func(t *testing.T) {
		service, _ := setupContractFixture(t, nil)

		contract, err := service.GenerateForActivity(ctx, buildSaleActivity())
		require.NoError(t, err)

		rendered, err := os.ReadFile(contract.ContractURL)
		require.NoError(t, err)
		assert.Contains(t, string(rendered), "Sale CTR-")
		assert.Contains(t, string(rendered), "$120000.00")
	})

	t.Run("generation is idempotent per activity", func(t *testing.T) {
		var pdfCalls int32
		service, _ := setupContractFixture(t, func(htmlContent, dirPath, filename string) (string, error) {
			atomic.AddInt32(&pdfCalls, 1)
			return filepath.Join(dirPath, filename), nil
		})

		activity := buildRentalActivity()
		first, err := service.GenerateForActivity(ctx, activity)
		require.NoError(t, err)
		second, err := service.GenerateForActivity(ctx, activity)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int32(1), atomic.LoadInt32(&pdfCalls))
	})

	t.Run("pdf failure keeps the html document", func(t *testing.T) {
		service, _ := setupContractFixture(t, func(htmlContent, dirPath, filename string) (string, error) {
			return "", errors.New("no browser available")
		})

		contract, err := service.GenerateForActivity(ctx, buildRentalActivity())
		require.NoError(t, err)
		assert.NotEmpty(t, contract.ContractURL)
		assert.Empty(t, contract.ContractPdfURL)
	})

	t.Run("existing row from another writer is reused", func(t *testing.T) {
		service, db := setupContractFixture(t, nil)
		activity := buildRentalActivity()

		raced := &models.Contract{
			ActivityID:  activity.ID,
			ContractURL: "contracts/raced.html",
			Status:      models.FinalContract,
			CreatedBy:   "system",
		}
		require.NoError(t, db.Create(raced).Error)

		contract, err := service.GenerateForActivity(ctx, activity)
		require.NoError(t, err)
		assert.Equal(t, raced.ID, contract.ID)
	})
}

func TestGetContractForActivity(t *testing.T) {
	service, _ := setupContractFixture(t, nil)
	activity := buildRentalActivity()

	t.Run("nil before generation", func(t *testing.T) {
		contract, err := service.GetContractForActivity(activity.ID)
		require.NoError(t, err)
		assert.Nil(t, contract)
	})

	t.Run("stored row after generation", func(t *testing.T) {
		generated, err := service.GenerateForActivity(context.Background(), activity)
		require.NoError(t, err)

		contract, err := service.GetContractForActivity(activity.ID)
		require.NoError(t, err)
		require.NotNil(t, contract)
		assert.Equal(t, generated.ID, contract.ID)
	})
}
