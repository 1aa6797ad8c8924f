// Package main 启动应用程序
package main

import "github.com/yeisme/mediavault/pkg/cmd"

//	@title			MediaVault API
//	@version		1.0
//	@description	MediaVault 是一个多租户媒体接入与分发服务，提供媒体上传、后台处理、签名URL访问与目录管理能力。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
