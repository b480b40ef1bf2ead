package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Server Metrics

	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// CRM Metrics

	// RecordsWritten 记录写操作次数
	RecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_records_written_total",
			Help: "Total number of record writes",
		},
		[]string{"object_type", "op"}, // op: create, update, delete
	)

	// MetadataCacheRequests 元数据缓存命中情况
	MetadataCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_metadata_cache_requests_total",
			Help: "Metadata cache lookups by result",
		},
		[]string{"kind", "result"}, // kind: fields, layout; result: hit, miss, error
	)

	// TestDataInserted 测试数据写入条数
	TestDataInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_test_data_inserted_total",
			Help: "Total number of generated test records inserted",
		},
		[]string{"object_type"},
	)

	// TestDataRunDuration 测试数据生成耗时
	TestDataRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crm_test_data_run_duration_seconds",
			Help:    "Duration of test data generation runs",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		},
	)
)
