package uischema

import "golang.org/x/text/language"

var messages = map[language.Tag]map[string]string{
	language.English: {
		"schema.title": "Settings",

		"section.site.title":                    "Site",
		"section.site.description":              "How your gallery presents itself.",
		"group.site.general.title":              "General",
		"field.site.name.label":                 "Site name",
		"field.site.name.placeholder":           "My photo gallery",
		"field.site.description.label":          "Description",
		"section.site-integrations.title":       "Integrations",
		"group.site.analytics.title":            "Analytics",
		"field.site.analyticsToken.label":       "Analytics token",
		"field.site.analyticsToken.description": "Stored encrypted and never shown again after saving.",

		"section.builder-storage.title":                "Storage",
		"section.builder-storage.description":          "Where photos are stored and served from.",
		"group.storage.providers.title":                "Providers",
		"field.storage.providers.label":                "Storage providers",
		"field.storage.providers.description":          "Configured storage backends for the photo builder.",
		"field.storage.activeProvider.label":           "Active provider",
		"field.storage.activeProvider.description":     "Provider used for new uploads. Choose managed storage to use your storage plan.",
		"field.storage.activeProvider.managed":         "Managed storage",
		"section.builder-storage-security.title":       "Access",
		"section.builder-storage-security.description": "Control how stored photos are delivered.",
		"group.storage.access.title":                   "Delivery",
		"field.storage.secureAccess.label":             "Secure access",
		"field.storage.secureAccess.description":       "Serve photos through short-lived signed URLs.",

		"provider.form.title":                     "Storage provider",
		"provider.form.description":               "Connection details for a storage backend.",
		"provider.field.name.label":               "Display name",
		"provider.field.name.placeholder":         "Primary bucket",
		"provider.field.type.label":               "Provider type",
		"provider.type.s3":                        "S3 compatible",
		"provider.type.github":                    "GitHub repository",
		"provider.type.local":                     "Local filesystem",
		"provider.type.eagle":                     "Eagle library",
		"provider.field.bucket.label":             "Bucket",
		"provider.field.region.label":             "Region",
		"provider.field.region.placeholder":       "us-east-1",
		"provider.field.endpoint.label":           "Endpoint",
		"provider.field.endpoint.placeholder":     "https://s3.example.com",
		"provider.field.accessKeyId.label":        "Access key ID",
		"provider.field.secretAccessKey.label":    "Secret access key",
		"provider.field.prefix.label":             "Path prefix",
		"provider.field.customDomain.label":       "Custom domain",
		"provider.field.customDomain.placeholder": "https://cdn.example.com",
		"provider.field.owner.label":              "Owner",
		"provider.field.repo.label":               "Repository",
		"provider.field.branch.label":             "Branch",
		"provider.field.branch.placeholder":       "main",
		"provider.field.token.label":              "Access token",
		"provider.field.path.label":               "Directory",
		"provider.field.basePath.label":           "Base path",
		"provider.field.basePath.placeholder":     "/var/lib/afilmory/photos",
		"provider.field.baseUrl.label":            "Public base URL",
		"provider.field.libraryPath.label":        "Library path",
		"provider.field.libraryPath.placeholder":  "/Users/me/Photos.library",
		"provider.test.unsupported":               "Connectivity checks are not available for %s providers.",
		"provider.test.ok":                        "Connected to %s.",
	},
	language.SimplifiedChinese: {
		"schema.title": "设置",

		"section.site.title":                    "站点",
		"section.site.description":              "画廊的展示方式。",
		"group.site.general.title":              "常规",
		"field.site.name.label":                 "站点名称",
		"field.site.name.placeholder":           "我的摄影作品集",
		"field.site.description.label":          "描述",
		"section.site-integrations.title":       "集成",
		"group.site.analytics.title":            "统计",
		"field.site.analyticsToken.label":       "统计令牌",
		"field.site.analyticsToken.description": "保存后将加密存储，不再显示。",

		"section.builder-storage.title":                "存储",
		"section.builder-storage.description":          "照片的存储位置与访问方式。",
		"group.storage.providers.title":                "存储提供商",
		"field.storage.providers.label":                "存储提供商",
		"field.storage.providers.description":          "照片构建器使用的存储后端。",
		"field.storage.activeProvider.label":           "当前存储",
		"field.storage.activeProvider.description":     "新上传使用的存储。选择托管存储即可使用订阅的存储方案。",
		"field.storage.activeProvider.managed":         "托管存储",
		"section.builder-storage-security.title":       "访问",
		"section.builder-storage-security.description": "控制照片的分发方式。",
		"group.storage.access.title":                   "分发",
		"field.storage.secureAccess.label":             "安全访问",
		"field.storage.secureAccess.description":       "通过短期签名链接提供照片。",

		"provider.form.title":                     "存储提供商",
		"provider.form.description":               "存储后端的连接信息。",
		"provider.field.name.label":               "显示名称",
		"provider.field.name.placeholder":         "主存储桶",
		"provider.field.type.label":               "类型",
		"provider.type.s3":                        "S3 兼容存储",
		"provider.type.github":                    "GitHub 仓库",
		"provider.type.local":                     "本地文件系统",
		"provider.type.eagle":                     "Eagle 资源库",
		"provider.field.bucket.label":             "存储桶",
		"provider.field.region.label":             "区域",
		"provider.field.region.placeholder":       "us-east-1",
		"provider.field.endpoint.label":           "访问端点",
		"provider.field.endpoint.placeholder":     "https://s3.example.com",
		"provider.field.accessKeyId.label":        "Access Key ID",
		"provider.field.secretAccessKey.label":    "Secret Access Key",
		"provider.field.prefix.label":             "路径前缀",
		"provider.field.customDomain.label":       "自定义域名",
		"provider.field.customDomain.placeholder": "https://cdn.example.com",
		"provider.field.owner.label":              "所有者",
		"provider.field.repo.label":               "仓库",
		"provider.field.branch.label":             "分支",
		"provider.field.branch.placeholder":       "main",
		"provider.field.token.label":              "访问令牌",
		"provider.field.path.label":               "目录",
		"provider.field.basePath.label":           "根目录",
		"provider.field.basePath.placeholder":     "/var/lib/afilmory/photos",
		"provider.field.baseUrl.label":            "公开访问地址",
		"provider.field.libraryPath.label":        "资源库路径",
		"provider.field.libraryPath.placeholder":  "/Users/me/Photos.library",
		"provider.test.unsupported":               "暂不支持检测 %s 类型的存储连接。",
		"provider.test.ok":                        "已连接到 %s。",
	},
}
