package main

// 引入解析平台插件，触发各平台的 init() 完成注册
import (
	_ "github.com/sshcollectorpro/cliparser/addone/parser/platforms/h3c_s"
	_ "github.com/sshcollectorpro/cliparser/addone/parser/platforms/huawei_s"
	_ "github.com/sshcollectorpro/cliparser/addone/parser/platforms/iosxe"
	_ "github.com/sshcollectorpro/cliparser/addone/parser/platforms/nxos"
)
