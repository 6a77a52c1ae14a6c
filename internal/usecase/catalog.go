package usecase

import (
	"storefront/internal/domain/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

// 初期カタログ（AMDのGPU/CPU）
func DefaultCatalog() []model.Product {
	return []model.Product{
		{
			ID:       "gpu-rx5700xt",
			Name:     "Radeon RX 5700 XT",
			Type:     model.ProductTypeGPU,
			AmdChip:  strPtr("Radeon RX 5700 XT"),
			Price:    decimal.RequireFromString("299.99"),
			Specs:    pq.StringArray{"8GB GDDR6", "RDNA Architecture", "PCIe 4.0 Ready"},
			ImageURL: strPtr("https://media.spdigital.cl/thumbnails/products/tjr0jrlb_0fce15a1_thumbnail_4096.jpg"),
		},
		{
			ID:       "gpu-rx7800xt",
			Name:     "Radeon RX 7800 XT",
			Type:     model.ProductTypeGPU,
			AmdChip:  strPtr("Radeon RX 7800 XT"),
			Price:    decimal.RequireFromString("499.99"),
			Specs:    pq.StringArray{"16GB GDDR6", "RDNA 3 Architecture", "Advanced Ray Tracing"},
			ImageURL: strPtr("https://www.winpy.cl/files/40481-6096-Gigabyte-Radeon-RX-7800-XT-GAMING-OC-de-16G-1.jpg"),
		},
		{
			ID:       "gpu-rx7900xtx",
			Name:     "Radeon RX 7900 XTX",
			Type:     model.ProductTypeGPU,
			AmdChip:  strPtr("Radeon RX 7900 XTX"),
			Price:    decimal.RequireFromString("999.99"),
			Specs:    pq.StringArray{"24GB GDDR6", "Chiplet Design", "DisplayPort 2.1"},
			ImageURL: strPtr("https://static.gigabyte.com/StaticFile/Image/Global/ffebdb331cdc6e8eecf7f2b4b42b8232/Product/32793"),
		},
		{
			ID:       "cpu-r5-7600x",
			Name:     "AMD Ryzen 5 7600X",
			Type:     model.ProductTypeCPU,
			AmdChip:  strPtr("Ryzen 5 7600X"),
			Price:    decimal.RequireFromString("229.00"),
			Specs:    pq.StringArray{"6 Cores", "12 Threads", "Up to 5.3GHz Boost", "Socket AM5"},
			ImageURL: strPtr("https://media.solotodo.com/media/products/1647078_picture_1672267310.jpg"),
		},
		{
			ID:       "cpu-r7-7800x3d",
			Name:     "AMD Ryzen 7 7800X3D",
			Type:     model.ProductTypeCPU,
			AmdChip:  strPtr("Ryzen 7 7800X3D"),
			Price:    decimal.RequireFromString("449.00"),
			Specs:    pq.StringArray{"8 Cores", "16 Threads", "AMD 3D V-Cache", "Gaming Optimized"},
			ImageURL: strPtr("https://sipoonline.cl/wp-content/uploads/2023/07/Procesador-AMD-Ryzen-7-7800X3D-100-100000910WOF.png"),
		},
		{
			ID:       "cpu-r9-7950x",
			Name:     "AMD Ryzen 9 7950X",
			Type:     model.ProductTypeCPU,
			AmdChip:  strPtr("Ryzen 9 7950X"),
			Price:    decimal.RequireFromString("549.00"),
			Specs:    pq.StringArray{"16 Cores", "32 Threads", "Up to 5.7GHz Boost", "Extreme Productivity"},
			ImageURL: strPtr("https://media.solotodo.com/media/products/1647114_picture_1672267314.jpg"),
		},
	}
}
