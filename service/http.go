package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/feature"
	"github.com/rushteam/agrikit/pipeline"
	"github.com/rushteam/agrikit/rules"
)

// Recommendation 是 HTTP 响应中的单条作物推荐。
type Recommendation struct {
	Crop        string  `json:"crop"`
	Probability float64 `json:"probability"`
}

// PredictResponse 是 POST /predict 的响应体。
type PredictResponse struct {
	Recommendations []Recommendation    `json:"recommendations"`
	SoilAnalysis    *rules.SoilAnalysis `json:"soil_analysis"`
	Method          string              `json:"method,omitempty"`
}

// Server 是 HTTP transport 适配层：解析请求载荷、执行 Pipeline、
// 映射领域错误到状态码。
//
// 错误映射规则：
//   - 校验类错误（调用方可自纠错）→ 400，错误消息原样返回
//   - 其余 → 500，对外只返回通用消息，细节只进日志
type Server struct {
	Pipeline *pipeline.Pipeline
	Logger   *zap.Logger

	// Cache 可选的响应缓存；key 是规范化记录的摘要。
	Cache    core.KeyValueStore
	CacheTTL int // 缓存秒数；<=0 表示不过期

	// Mapper 仅用于推导缓存 key，须与 Pipeline 的归一化配置一致。
	Mapper feature.Mapper
}

// NewServer 创建 HTTP 适配层。logger 为 nil 时使用 zap.NewNop。
func NewServer(p *pipeline.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Pipeline: p, Logger: logger}
}

// Router 构建 gin 路由。
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(Logging(s.Logger), Recovery(s.Logger))

	r.GET("/healthz", s.handleHealth)
	r.POST("/predict", s.handlePredict)
	r.POST("/predict/best", s.handleBest)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePredict(c *gin.Context) {
	raw, ok := s.bindRaw(c)
	if !ok {
		return
	}
	resp, err := s.Predict(c.Request.Context(), raw)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleBest(c *gin.Context) {
	raw, ok := s.bindRaw(c)
	if !ok {
		return
	}
	resp, err := s.Predict(c.Request.Context(), raw)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if len(resp.Recommendations) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no recommendation produced"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prediction": resp.Recommendations[0].Crop})
}

// Predict 执行一次完整的预测：缓存查找 → Pipeline → 响应组装 → 缓存回填。
func (s *Server) Predict(ctx context.Context, raw map[string]any) (*PredictResponse, error) {
	key := s.cacheKey(raw)
	if s.Cache != nil && key != "" {
		if data, err := s.Cache.Get(ctx, key); err == nil {
			var cached PredictResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	rctx := &core.RequestContext{Raw: raw}
	scores, err := s.Pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	resp := &PredictResponse{
		Recommendations: make([]Recommendation, 0, len(scores)),
	}
	for _, cs := range scores {
		if cs == nil {
			continue
		}
		resp.Recommendations = append(resp.Recommendations, Recommendation{
			Crop:        cs.Crop,
			Probability: cs.Score,
		})
	}
	if len(scores) > 0 {
		if lbl, ok := scores[0].Labels["rank_model"]; ok {
			resp.Method = lbl.Value
		}
	}
	if rctx.Record != nil {
		r := rctx.Record
		resp.SoilAnalysis = rules.AnalyzeSoil(r.Nitrogen, r.Phosphorus, r.Potassium, r.PH)
	}

	if s.Cache != nil && key != "" {
		if data, err := json.Marshal(resp); err == nil {
			_ = s.Cache.Set(ctx, key, data, s.CacheTTL)
		}
	}
	return resp, nil
}

// bindRaw 解析 JSON 请求体为原始字段映射。字段归一化交给 Pipeline 的
// Ingest 节点，这里不做任何字段级处理。
func (s *Server) bindRaw(c *gin.Context) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return nil, false
	}
	return raw, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	if core.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// 内部错误细节只进日志，不回给调用方
	s.Logger.Error("predict failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// cacheKey 从规范化记录推导缓存 key。归一化失败时返回空串（不缓存），
// 让 Pipeline 以统一的方式上报错误。
func (s *Server) cacheKey(raw map[string]any) string {
	if s.Cache == nil {
		return ""
	}
	record, err := s.Mapper.Map(raw)
	if err != nil {
		return ""
	}
	canonical := fmt.Sprintf("%v|%v|%v|%v|%v|%v|%v|%s|%s|%v",
		record.Nitrogen, record.Phosphorus, record.Potassium,
		record.Temperature, record.Humidity, record.PH, record.Rainfall,
		record.State, record.SoilType, record.LandArea)
	sum := sha256.Sum256([]byte(canonical))
	return "agrikit:predict:" + hex.EncodeToString(sum[:])
}
