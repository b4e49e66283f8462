package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/supplier_kpi/config"
	"github.com/BerniceZTT/supplier_kpi/models"
	"github.com/BerniceZTT/supplier_kpi/service/export"
	"github.com/BerniceZTT/supplier_kpi/service/kpi"
	"github.com/BerniceZTT/supplier_kpi/service/workbook"
	"github.com/BerniceZTT/supplier_kpi/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookController 工作簿上传、汇总与导出
type WorkbookController struct {
	cfg      *config.Config
	exporter *export.Exporter
}

// NewWorkbookController 创建控制器
func NewWorkbookController(cfg *config.Config) *WorkbookController {
	return &WorkbookController{cfg: cfg, exporter: export.NewExporter()}
}

// Upload 上传工作簿并返回KPI汇总
func (wc *WorkbookController) Upload(c *gin.Context) {
	summary, err := wc.summarize(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, summary)
}

// ListSheets 返回工作簿中的工作表名称
func (wc *WorkbookController) ListSheets(c *gin.Context) {
	wb, _, err := wc.openUpload(c)
	if err != nil {
		fail(c, err)
		return
	}
	defer wb.Close()

	c.JSON(http.StatusOK, gin.H{"sheets": wb.SheetNames()})
}

// Export 生成KPI汇总并以Excel文件下载
func (wc *WorkbookController) Export(c *gin.Context) {
	summary, err := wc.summarize(c)
	if err != nil {
		fail(c, err)
		return
	}

	f, err := wc.exporter.Export(summary)
	if err != nil {
		fail(c, utils.CreateProcessingError(err))
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		fail(c, utils.CreateProcessingError(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="kpi-summary.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// summarize 读取上传文件并生成汇总
func (wc *WorkbookController) summarize(c *gin.Context) (*models.KPISummary, error) {
	wb, audit, err := wc.openUpload(c)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	opts := wc.options(c)
	audit.MappingSheetName = opts.MappingSheetName
	audit.RegulationsSheetName = opts.RegulationsSheetName

	summary, err := kpi.Build(wb, opts)
	if err != nil {
		var missing *kpi.SheetNotFoundError
		if errors.As(err, &missing) {
			return nil, utils.NewApiError(missing.Error(), http.StatusBadRequest, "SHEET_NOT_FOUND")
		}
		return nil, utils.CreateProcessingError(err)
	}

	audit.TotalSuppliers = summary.TotalSuppliers
	audit.Warnings = summary.Warnings

	utils.Logger.Info().
		Str("workbookId", wb.ID()).
		Str("mappingSheet", opts.MappingSheetName).
		Int("totalSuppliers", summary.TotalSuppliers).
		Int("regions", len(summary.SuppliersByRegion)).
		Int("warnings", len(summary.Warnings)).
		Msg("KPI汇总完成")

	return summary, nil
}

// openUpload 读取表单中的 file 字段
func (wc *WorkbookController) openUpload(c *gin.Context) (*workbook.Workbook, *models.UploadAudit, error) {
	if limit := wc.cfg.MaxUploadBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	header, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			return nil, nil, utils.CreateTooLargeError()
		}
		return nil, nil, utils.CreateBadRequestError("No file uploaded")
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, utils.CreateProcessingError(err)
	}
	defer file.Close()

	wb, err := workbook.Open(file)
	if err != nil {
		return nil, nil, utils.CreateProcessingError(err)
	}

	audit := &models.UploadAudit{
		WorkbookID: wb.ID(),
		FileName:   header.Filename,
		FileSize:   header.Size,
	}
	c.Set(models.UploadAuditKey, audit)

	return wb, audit, nil
}

// options 表单参数优先，兼容旧字段 sheetName
func (wc *WorkbookController) options(c *gin.Context) kpi.Options {
	return kpi.Options{
		MappingSheetName:     firstNonEmpty(c.PostForm("mappingSheetName"), c.PostForm("sheetName"), wc.cfg.MappingSheetName),
		RegulationsSheetName: firstNonEmpty(c.PostForm("regulationsSheetName"), wc.cfg.RegulationsSheetName),
		TopN:                 wc.cfg.TopN,
		SpendYears:           wc.cfg.SpendYears,
		Policy:               kpi.ParseCoercionPolicy(wc.cfg.CoercionPolicy),
	}
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	utils.HandleError(c, err)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
