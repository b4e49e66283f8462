package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadAuditKey 控制器写入 gin.Context 的上传审计信息键
const UploadAuditKey = "uploadAudit"

// UploadAudit 一次上传的摘要信息，不包含工作簿内容
type UploadAudit struct {
	WorkbookID           string   `json:"workbookId" bson:"workbookId"`
	FileName             string   `json:"fileName" bson:"fileName"`
	FileSize             int64    `json:"fileSize" bson:"fileSize"`
	MappingSheetName     string   `json:"mappingSheetName,omitempty" bson:"mappingSheetName,omitempty"`
	RegulationsSheetName string   `json:"regulationsSheetName,omitempty" bson:"regulationsSheetName,omitempty"`
	TotalSuppliers       int      `json:"totalSuppliers" bson:"totalSuppliers"`
	Warnings             []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// OperationLog 操作日志结构体
type OperationLog struct {
	ID            primitive.ObjectID     `json:"_id,omitempty" bson:"_id,omitempty"`
	RequestID     string                 `json:"requestId" bson:"requestId"`
	Method        string                 `json:"method" bson:"method"`
	Path          string                 `json:"path" bson:"path"`
	OperatorID    string                 `json:"operatorId" bson:"operatorId"`
	OperatorName  string                 `json:"operatorName" bson:"operatorName"`
	OperatorType  string                 `json:"operatorType" bson:"operatorType"`
	RequestHeader map[string]interface{} `json:"requestHeaders" bson:"requestHeaders"`
	Upload        *UploadAudit           `json:"upload,omitempty" bson:"upload,omitempty"`
	StatusCode    int                    `json:"statusCode" bson:"statusCode"`
	Success       bool                   `json:"success" bson:"success"`
	ErrorMessage  string                 `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
	OperationTime time.Time              `json:"operationTime" bson:"operationTime"`
	ResponseTime  int64                  `json:"responseTime" bson:"responseTime"` // 毫秒
	IPAddress     string                 `json:"ipAddress" bson:"ipAddress"`
	UserAgent     string                 `json:"userAgent" bson:"userAgent"`
}
