package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"property-marketplace-backend/config"
	"property-marketplace-backend/contracts/repositories"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContractService turns a paid activity into the stored legal artifact. The
// rendered HTML is the document of record; the PDF rendition is produced by a
// headless browser and its absence never blocks the transaction.
type ContractService struct {
	contractRepo repositories.ContractRepository
	templateDir  string
	outputDir    string

	// renderPDF is swappable so environments without a browser still work.
	renderPDF func(htmlContent, dirPath, filename string) (string, error)
}

func NewContractService(
	contractRepo repositories.ContractRepository,
	templateDir string,
	outputDir string,
	renderPDF func(htmlContent, dirPath, filename string) (string, error),
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		templateDir:  templateDir,
		outputDir:    outputDir,
		renderPDF:    renderPDF,
	}
}

// GenerateForActivity builds the contract for a paid activity. Generation is
// idempotent per activity: a repeat call returns the previously stored row
// instead of producing a second document.
func (s *ContractService) GenerateForActivity(ctx context.Context, activity *models.Activity) (*models.Contract, error) {
	existing, err := s.contractRepo.GetContractByActivityID(activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing contract: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	templateName := "rental-contract.html"
	data := ContractData{}
	if activity.Property.ActionType == models.SaleActionType {
		templateName = "sale-contract.html"
		data = BuildSaleContractData(activity, time.Now())
	} else {
		data = BuildRentalContractData(activity, time.Now())
	}

	htmlContent, err := s.renderHTML(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render contract template: %w", err)
	}

	base := "contract-" + activity.ID.String()[:8]
	htmlPath, err := s.writeHTML(htmlContent, base+".html")
	if err != nil {
		return nil, fmt.Errorf("failed to store contract document: %w", err)
	}

	pdfPath := ""
	if s.renderPDF != nil {
		pdfPath, err = s.renderPDF(htmlContent, s.outputDir, base+".pdf")
		if err != nil {
			config.Logger.Warn("Contract PDF rendition failed, keeping HTML document",
				zap.String("activityID", activity.ID.String()),
				zap.Error(err),
			)
			pdfPath = ""
		}
	}

	contract := &models.Contract{
		ActivityID:     activity.ID,
		ContractURL:    htmlPath,
		ContractPdfURL: pdfPath,
		Status:         models.FinalContract,
		CreatedBy:      "system",
	}
	if err := s.contractRepo.CreateContract(contract); err != nil {
		// A concurrent generation may have won the unique index race.
		if raced, lookupErr := s.contractRepo.GetContractByActivityID(activity.ID); lookupErr == nil && raced != nil {
			return raced, nil
		}
		return nil, fmt.Errorf("failed to store contract: %w", err)
	}

	config.Logger.Info("Contract generated",
		zap.String("contractID", contract.ID.String()),
		zap.String("activityID", activity.ID.String()),
		zap.String("template", templateName),
	)
	return contract, nil
}

// GetContractForActivity returns the stored contract, or nil when none has
// been generated yet.
func (s *ContractService) GetContractForActivity(activityID uuid.UUID) (*models.Contract, error) {
	return s.contractRepo.GetContractByActivityID(activityID)
}

func (s *ContractService) writeHTML(htmlContent, filename string) (string, error) {
	return utils.WriteHTMLFile(htmlContent, s.outputDir, filename)
}

func (s *ContractService) renderHTML(templateName string, data ContractData) (string, error) {
	funcMap := template.FuncMap{
		"add1": func(i int) int { return i + 1 },
	}
	tmpl, err := template.New(templateName).Funcs(funcMap).ParseFiles(filepath.Join(s.templateDir, templateName))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %v", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s: %v", templateName, err)
	}
	return buf.String(), nil
}
