package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/DavidLanz/msdtools/internal/analysis"
	"github.com/DavidLanz/msdtools/internal/report"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Report   ReportConfig   `toml:"report"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	RunLog  bool   `toml:"run_log"` // 是否记录运行日志（仅元数据）
}

// ReportConfig 报表输出配置
type ReportConfig struct {
	Dataset        string   `toml:"dataset"`
	SheetName      string   `toml:"sheet_name"`
	Headers        []string `toml:"headers"`
	TopColor       string   `toml:"top_color"`
	BottomColor    string   `toml:"bottom_color"`
	HighlightCount int      `toml:"highlight_count"`
}

// AnalysisConfig 分析配置
type AnalysisConfig struct {
	DuplicatePolicy string `toml:"duplicate_policy"` // sum / last / reject
	SheetName       string `toml:"sheet_name"`       // 读取的工作表，为空时取第一个
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			RunLog:  true,
		},
		Report: ReportConfig{
			Dataset:        report.DefaultDataset,
			SheetName:      report.DefaultSheetName,
			Headers:        append([]string(nil), report.DefaultHeaders[:]...),
			TopColor:       report.DefaultTopColor,
			BottomColor:    report.DefaultBottomColor,
			HighlightCount: analysis.DefaultHighlightCount,
		},
		Analysis: AnalysisConfig{
			DuplicatePolicy: string(analysis.DuplicateSum),
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径：可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// Load 从指定路径加载配置，path 为空时使用默认路径；文件不存在时返回默认配置
func Load(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, info, nil
		}
		return nil, info, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	info.Found = true
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, info, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

// applyEnv 环境变量覆盖（用于容器 / 本地运行）
func (c *AppConfig) applyEnv() {
	if v := os.Getenv("MSDTOOLS_DATA_DIR"); v != "" {
		c.Data.DataDir = v
	}
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if len(c.Report.Headers) != 0 && len(c.Report.Headers) != len(report.DefaultHeaders) {
		return fmt.Errorf("report.headers must have %d entries, got %d", len(report.DefaultHeaders), len(c.Report.Headers))
	}
	if _, err := analysis.ParseDuplicatePolicy(c.Analysis.DuplicatePolicy); err != nil {
		return fmt.Errorf("analysis.duplicate_policy: %w", err)
	}
	return nil
}

// AnalysisOptions 转换为分析器选项
func (c *AppConfig) AnalysisOptions() analysis.Options {
	policy, err := analysis.ParseDuplicatePolicy(c.Analysis.DuplicatePolicy)
	if err != nil {
		policy = analysis.DuplicateSum
	}

	var headers [6]string
	copy(headers[:], c.Report.Headers)

	opts := analysis.Options{
		DuplicatePolicy: policy,
		HighlightCount:  c.Report.HighlightCount,
		Report: report.Options{
			SheetName:   c.Report.SheetName,
			Dataset:     c.Report.Dataset,
			Headers:     headers,
			TopColor:    c.Report.TopColor,
			BottomColor: c.Report.BottomColor,
		},
	}
	opts.Read.SheetName = c.Analysis.SheetName
	return opts
}

// SaveConfig 保存配置到指定路径
func SaveConfig(path string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir 确保数据目录存在；相对路径以可执行文件目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
