package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/internal/codec"
	"github.com/sshcollectorpro/cliparser/internal/config"
	"github.com/sshcollectorpro/cliparser/internal/database"
	"github.com/sshcollectorpro/cliparser/internal/engine"
	"github.com/sshcollectorpro/cliparser/internal/model"
	"github.com/sshcollectorpro/cliparser/internal/repository"
	"github.com/sshcollectorpro/cliparser/pkg/logger"
	"github.com/sshcollectorpro/cliparser/pkg/ssh"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidRequest 请求参数不合法
	ErrInvalidRequest = errors.New("invalid parse request")
	// ErrParseFailed 例程运行失败
	ErrParseFailed = errors.New("parse failed")
	// ErrHistoryDisabled 未启用解析历史
	ErrHistoryDisabled = errors.New("parse history disabled")
)

// 对外错误码
const (
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeRepositoryNotFound = "REPOSITORY_NOT_FOUND"
	CodeDefinitionNotFound = "DEFINITION_NOT_FOUND"
	CodeAmbiguousPattern   = "AMBIGUOUS_PATTERN"
	CodeAdaptationFailed   = "ADAPTATION_FAILED"
	CodeCollectFailed      = "COLLECT_FAILED"
	CodeParseFailed        = "PARSE_FAILED"
	CodeHistoryUnavailable = "HISTORY_UNAVAILABLE"
)

// ErrorCode 将错误映射为对外错误码
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParseFailed):
		return CodeParseFailed
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, codec.ErrUnsupportedFormat):
		return CodeInvalidParams
	case errors.Is(err, parser.ErrRepositoryNotFound):
		return CodeRepositoryNotFound
	case errors.Is(err, parser.ErrDefinitionNotFound):
		return CodeDefinitionNotFound
	case errors.Is(err, parser.ErrAmbiguousPattern):
		return CodeAmbiguousPattern
	case errors.Is(err, parser.ErrAdaptation):
		return CodeAdaptationFailed
	default:
		return CodeParseFailed
	}
}

// Collector 在线采集命令回显
type Collector interface {
	Collect(ctx context.Context, info *ssh.ConnectionInfo, commands []string) ([]*ssh.CommandResult, error)
}

// sshCollector 基于 SSH exec 通道的采集器
type sshCollector struct {
	cfg config.SSHConfig
}

func (c sshCollector) Collect(ctx context.Context, info *ssh.ConnectionInfo, commands []string) ([]*ssh.CommandResult, error) {
	return ssh.Collect(ctx, &ssh.Config{Timeout: c.cfg.ConnectTimeout, CommandTimeout: c.cfg.CommandTimeout}, info, commands)
}

// Options 解析服务选项
type Options struct {
	// History 是否写入解析历史
	History bool
	// BatchConcurrency 批量解析并发数
	BatchConcurrency int
	SSH              config.SSHConfig
}

// ParseService 解析服务：引擎调用、编码、归档与历史
type ParseService struct {
	engine    *engine.Engine
	registry  *parser.Registry
	repo      *repository.Repository
	writer    StorageWriter
	collector Collector
	opts      Options
}

// NewParseService 创建解析服务，repo 与 writer 可为空
func NewParseService(eng *engine.Engine, registry *parser.Registry, repo *repository.Repository, writer StorageWriter, opts Options) *ParseService {
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	return &ParseService{
		engine:    eng,
		registry:  registry,
		repo:      repo,
		writer:    writer,
		collector: sshCollector{cfg: opts.SSH},
		opts:      opts,
	}
}

// SetCollector 替换在线采集器
func (s *ParseService) SetCollector(c Collector) {
	s.collector = c
}

// ParseRequest 单条解析请求
type ParseRequest struct {
	TaskID   string `json:"task_id"`
	Command  string `json:"command"`
	Output   string `json:"output"`
	Platform string `json:"platform"`
	// Format json | cbor，默认 json
	Format string `json:"format"`
	// Archive 是否归档回显与结果
	Archive bool `json:"archive"`
}

// ParseResponse 单条解析结果
type ParseResponse struct {
	TaskID     string         `json:"task_id,omitempty"`
	Command    string         `json:"command"`
	Platform   string         `json:"platform"`
	Routine    string         `json:"routine"`
	Format     string         `json:"format"`
	Result     interface{}    `json:"result"`
	Archive    []StoredObject `json:"archive,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	// Payload 按 Format 编码后的结果
	Payload []byte `json:"-"`
}

// Parse 解析单条回显
func (s *ParseService) Parse(ctx context.Context, req *ParseRequest) (*ParseResponse, error) {
	if req == nil || strings.TrimSpace(req.Command) == "" {
		return nil, fmt.Errorf("%w: command is required", ErrInvalidRequest)
	}
	format, err := codec.NormalizeFormat(req.Format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	key := s.engine.Key(req.Command, req.Platform)
	resp := &ParseResponse{
		TaskID:   req.TaskID,
		Command:  key.Command,
		Platform: key.Platform,
		Format:   format,
	}

	rt, res, err := s.engine.Execute(req.Command, req.Output, key.Platform)
	if rt != nil {
		resp.Routine = rt.Name()
	}
	if err == nil {
		resp.Payload, err = codec.Marshal(format, res)
	}
	if err != nil && rt != nil {
		err = fmt.Errorf("%w: %s: %w", ErrParseFailed, rt.Name(), err)
	}
	resp.Result = res
	resp.DurationMs = time.Since(start).Milliseconds()

	if err == nil && req.Archive {
		resp.Archive = s.archive(ctx, req, resp)
	}
	s.record(req, resp, err)
	if err != nil {
		return nil, err
	}
	logger.WithCommand(key.Command, key.Platform).WithField("routine", resp.Routine).Info("Parse completed")
	return resp, nil
}

// archive 归档原始回显与编码结果，失败只记录日志
func (s *ParseService) archive(ctx context.Context, req *ParseRequest, resp *ParseResponse) []StoredObject {
	if s.writer == nil {
		return nil
	}
	now := time.Now()
	base := slug(resp.Command) + "_" + now.Format("150405")
	var out []StoredObject

	items := []struct {
		name string
		data []byte
		ct   string
	}{
		{base + ".txt", []byte(req.Output), "text/plain; charset=utf-8"},
		{base + "." + resp.Format, resp.Payload, codec.ContentType(resp.Format)},
	}
	for _, it := range items {
		obj, err := s.writer.Write(ctx, StorageMeta{
			TaskID:   req.TaskID,
			Platform: resp.Platform,
			Command:  resp.Command,
			FileName: it.name,
			Time:     now,
		}, it.data, it.ct)
		if err != nil {
			logger.Warnf("Archive %s failed: %v", it.name, err)
			continue
		}
		out = append(out, obj)
	}
	return out
}

// record 写入解析历史
func (s *ParseService) record(req *ParseRequest, resp *ParseResponse, err error) {
	if !s.opts.History || database.GetDB() == nil {
		return
	}
	rec := &model.ParseRecord{
		TaskID:      req.TaskID,
		Platform:    resp.Platform,
		Command:     resp.Command,
		Routine:     resp.Routine,
		Status:      model.ParseStatusSuccess,
		OutputBytes: len(req.Output),
		Duration:    resp.DurationMs,
	}
	if len(resp.Archive) > 0 {
		rec.ArchivePath = resp.Archive[0].URI
	}
	if err != nil {
		rec.Status = model.ParseStatusFailed
		rec.ErrorCode = ErrorCode(err)
		rec.ErrorMsg = err.Error()
	}
	if serr := database.SaveParseRecord(rec); serr != nil {
		logger.Warnf("Save parse record failed: %v", serr)
	}
}

// BatchItem 批量解析中的单项
type BatchItem struct {
	Command  string `json:"command"`
	Output   string `json:"output"`
	Platform string `json:"platform"`
}

// BatchRequest 批量解析请求，单项未指定平台时使用 Platform
type BatchRequest struct {
	TaskID   string      `json:"task_id"`
	Platform string      `json:"platform"`
	Items    []BatchItem `json:"items"`
}

// BatchItemResult 批量解析单项结果
type BatchItemResult struct {
	Index    int         `json:"index"`
	Command  string      `json:"command"`
	Platform string      `json:"platform"`
	Routine  string      `json:"routine,omitempty"`
	Success  bool        `json:"success"`
	Result   interface{} `json:"result,omitempty"`
	Code     string      `json:"code,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// BatchResponse 批量解析结果，顺序与请求一致
type BatchResponse struct {
	TaskID  string            `json:"task_id,omitempty"`
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Results []BatchItemResult `json:"results"`
}

// ParseBatch 并发解析多条回显，单项失败不影响其他项
func (s *ParseService) ParseBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items is required", ErrInvalidRequest)
	}

	results := make([]BatchItemResult, len(req.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, item := range req.Items {
		platform := item.Platform
		if strings.TrimSpace(platform) == "" {
			platform = req.Platform
		}
		g.Go(func() error {
			results[i] = s.parseItem(gctx, req.TaskID, i, item.Command, item.Output, platform)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summarize(req.TaskID, results), nil
}

func (s *ParseService) parseItem(ctx context.Context, taskID string, index int, command, output, platform string) BatchItemResult {
	item := BatchItemResult{Index: index, Command: command, Platform: s.engine.Key(command, platform).Platform}
	if err := ctx.Err(); err != nil {
		item.Code, item.Message = CodeParseFailed, err.Error()
		return item
	}
	resp, err := s.Parse(ctx, &ParseRequest{TaskID: taskID, Command: command, Output: output, Platform: platform})
	if err != nil {
		item.Code, item.Message = ErrorCode(err), err.Error()
		return item
	}
	item.Command = resp.Command
	item.Routine = resp.Routine
	item.Result = resp.Result
	item.Success = true
	return item
}

func summarize(taskID string, results []BatchItemResult) *BatchResponse {
	resp := &BatchResponse{TaskID: taskID, Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			resp.Success++
		} else {
			resp.Failed++
		}
	}
	return resp
}

// DeviceRequest 在线采集并解析
type DeviceRequest struct {
	TaskID     string   `json:"task_id"`
	DeviceIP   string   `json:"device_ip"`
	DevicePort int      `json:"device_port"`
	UserName   string   `json:"user_name"`
	Password   string   `json:"password"`
	Platform   string   `json:"platform"`
	CliList    []string `json:"cli_list"`
}

// ParseDevice 通过 SSH 采集命令回显后逐条解析
func (s *ParseService) ParseDevice(ctx context.Context, req *DeviceRequest) (*BatchResponse, error) {
	if req == nil || strings.TrimSpace(req.DeviceIP) == "" || len(req.CliList) == 0 {
		return nil, fmt.Errorf("%w: device_ip and cli_list are required", ErrInvalidRequest)
	}
	port := req.DevicePort
	if port <= 0 {
		port = 22
	}
	collected, err := s.collector.Collect(ctx, &ssh.ConnectionInfo{
		Host:     req.DeviceIP,
		Port:     port,
		Username: req.UserName,
		Password: req.Password,
	}, req.CliList)
	if err != nil {
		return nil, fmt.Errorf("collect from %s: %w", req.DeviceIP, err)
	}

	results := make([]BatchItemResult, len(req.CliList))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, command := range req.CliList {
		if i >= len(collected) || collected[i] == nil {
			results[i] = BatchItemResult{Index: i, Command: command, Code: CodeCollectFailed, Message: "command not executed"}
			continue
		}
		cr := collected[i]
		if cr.Error != "" && cr.Output == "" {
			results[i] = BatchItemResult{Index: i, Command: command, Code: CodeCollectFailed, Message: cr.Error}
			continue
		}
		g.Go(func() error {
			results[i] = s.parseItem(gctx, req.TaskID, i, command, cr.Output, req.Platform)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summarize(req.TaskID, results), nil
}

// RoutineInfo 例程概要
type RoutineInfo struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

// PlatformInfo 平台概要
type PlatformInfo struct {
	Platform    string        `json:"platform"`
	Routines    []RoutineInfo `json:"routines"`
	Definitions int           `json:"definitions"`
}

// Platforms 列出编译注册的例程与源码定义仓库中的平台
func (s *ParseService) Platforms() []PlatformInfo {
	index := make(map[string]int)
	var out []PlatformInfo
	add := func(p string) *PlatformInfo {
		if i, ok := index[p]; ok {
			return &out[i]
		}
		index[p] = len(out)
		out = append(out, PlatformInfo{Platform: p, Routines: []RoutineInfo{}})
		return &out[len(out)-1]
	}

	if s.registry != nil {
		for _, p := range s.registry.Platforms() {
			info := add(p)
			for _, rt := range s.registry.Routines(p) {
				info.Routines = append(info.Routines, RoutineInfo{Name: rt.Name(), Patterns: rt.Patterns()})
			}
		}
	}
	if s.repo != nil {
		platforms, err := s.repo.Platforms()
		if err != nil {
			logger.Warnf("List definition platforms failed: %v", err)
		}
		for _, p := range platforms {
			artifacts, err := s.repo.Scan(p)
			if err != nil {
				continue
			}
			add(parser.NormalizePlatform(p)).Definitions = len(artifacts)
		}
	}
	return out
}

// Definitions 平台下的源码定义文件
func (s *ParseService) Definitions(platform string) ([]repository.Artifact, error) {
	if s.repo == nil {
		return nil, parser.NewResolveError(parser.ErrRepositoryNotFound, "", platform, "definition repository not configured")
	}
	return s.repo.Scan(platform)
}

// CacheStats 例程缓存统计
func (s *ParseService) CacheStats() engine.Stats {
	return s.engine.Cache().Stats()
}

// CacheKeys 已缓存的键
func (s *ParseService) CacheKeys() []engine.Key {
	return s.engine.Cache().Keys()
}

// ClearCache 清空例程缓存，返回清除的条目数
func (s *ParseService) ClearCache() int {
	n := s.engine.Cache().Clear()
	logger.Infof("Routine cache cleared: %d entries", n)
	return n
}

// History 最近的解析历史
func (s *ParseService) History(platform string, limit int) ([]model.ParseRecord, error) {
	if !s.opts.History {
		return nil, ErrHistoryDisabled
	}
	return database.RecentParseRecords(platform, limit)
}

// DefaultPlatform 引擎默认平台
func (s *ParseService) DefaultPlatform() string {
	return s.engine.DefaultPlatform()
}
